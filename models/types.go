// ABOUTME: Data models for Farmbase CRM entities
// ABOUTME: Defines Contact, Farm, engagement, chat, market and reference structs
package models

import "time"

type Contact struct {
	ID                     int64             `json:"id,omitempty"`
	ExternalID             string            `json:"external_id,omitempty"`
	ExternalURL            string            `json:"external_url,omitempty"`
	Name                   string            `json:"name"`
	PhoneNumber            string            `json:"phone_number,omitempty"`
	Email                  string            `json:"email,omitempty"`
	PreferredFormOfAddress string            `json:"preferred_form_of_address,omitempty"`
	Gender                 string            `json:"gender,omitempty"`
	DateOfBirth            string            `json:"date_of_birth,omitempty"`
	EstimatedAge           int               `json:"estimated_age,omitempty"`
	Role                   string            `json:"role,omitempty"`
	Experience             int               `json:"experience,omitempty"`
	Organization           string            `json:"organization,omitempty"`
	ProductInterests       *ProductInterests `json:"product_interests,omitempty"`
	Farms                  []FarmRef         `json:"farms,omitempty"`
	CreatedAt              time.Time         `json:"created_at,omitempty"`
	UpdatedAt              time.Time         `json:"updated_at,omitempty"`
}

type ProductInterests struct {
	Crops     []string `json:"crops,omitempty"`
	Livestock []string `json:"livestock,omitempty"`
	Other     []string `json:"other,omitempty"`
}

// FarmRef is the denormalized farm reference embedded in contact records.
type FarmRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Farm struct {
	ID          int64     `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    *Location `json:"location,omitempty"`
	AreaHa      float64   `json:"area,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	Contacts    []Contact `json:"contacts,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Note is a farm-scoped child record; never listed outside a farm context.
type Note struct {
	ID        int64     `json:"id,omitempty"`
	FarmID    int64     `json:"farm_id"`
	Content   string    `json:"content"`
	Author    string    `json:"author,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Location  *Location `json:"location,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type ContactEngagement struct {
	ID             int64     `json:"id,omitempty"`
	ContactID      int64     `json:"contact_id"`
	EngagementType string    `json:"engagement_type"`
	EngagementDate string    `json:"engagement_date"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
	UpdatedAt      time.Time `json:"updated_at,omitempty"`
}

// ContactFilter is a saved-filter definition used to populate filter dialogs.
type ContactFilter struct {
	ID             int64          `json:"id,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	FilterType     string         `json:"filter_type"`
	FilterCriteria map[string]any `json:"filter_criteria,omitempty"`
	Enabled        bool           `json:"enabled"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
}

// ChatState is the per-contact message transcript. Read-only from this client.
type ChatState struct {
	LastAgent *AgentRef        `json:"last_agent,omitempty"`
	Messages  []MessageSummary `json:"messages"`
}

type AgentRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MessageSummary struct {
	ID        int64          `json:"id,omitempty"`
	Direction string         `json:"direction,omitempty"`
	Role      string         `json:"role,omitempty"`
	Type      string         `json:"type,omitempty"`
	Text      string         `json:"text,omitempty"`
	MediaURL  string         `json:"media_url,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Memory is a read-only per-contact memory item surfaced by the agent backend.
type Memory struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	Score     float64        `json:"score,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type User struct {
	ID                   int64    `json:"id,omitempty"`
	Email                string   `json:"email"`
	Role                 string   `json:"role,omitempty"`
	ExperimentalFeatures bool     `json:"experimental_features,omitempty"`
	Password             string   `json:"password,omitempty"` // write-only on create
	Projects             []string `json:"projects,omitempty"`
}

type Organization struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

type OrganizationMember struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"`
	Email          string    `json:"email"`
	Name           string    `json:"name,omitempty"`
	JoinedAt       time.Time `json:"joined_at,omitempty"`
}

type Market struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Commodity struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Classification string `json:"classification,omitempty"`
	Grade          string `json:"grade,omitempty"`
	Sex            string `json:"sex,omitempty"`
}

// MarketPrice joins a market and commodity on a price date.
type MarketPrice struct {
	ID             int64     `json:"id"`
	PriceDate      string    `json:"price_date"`
	SupplyVolume   *float64  `json:"supply_volume,omitempty"`
	WholesalePrice *float64  `json:"wholesale_price,omitempty"`
	WholesaleUnit  string    `json:"wholesale_unit,omitempty"`
	WholesaleCcy   string    `json:"wholesale_ccy,omitempty"`
	RetailPrice    *float64  `json:"retail_price,omitempty"`
	RetailUnit     string    `json:"retail_unit,omitempty"`
	RetailCcy      string    `json:"retail_ccy,omitempty"`
	Market         Market    `json:"market"`
	Commodity      Commodity `json:"commodity"`
}

// CropVariety is a flat reference row, small enough to cache fully client-side.
type CropVariety struct {
	Variety          string `json:"variety"`
	Producer         string `json:"producer"`
	Description      string `json:"description"`
	MaturityCategory string `json:"maturity_category"`
	MaturityDays     string `json:"maturity_days,omitempty"`
	YieldTHa         string `json:"yield_t_ha,omitempty"`
	AltitudeRangeM   string `json:"altitude_range_m,omitempty"`
}

type CropStage struct {
	ID       int64  `json:"id"`
	CycleID  int64  `json:"cycle_id"`
	Order    int    `json:"order"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

type CropEvent struct {
	ID              int64           `json:"id"`
	CropCycleID     int64           `json:"crop_cycle_id"`
	EventIdentifier string          `json:"event_identifier"`
	StartDay        int             `json:"start_day"`
	EndDay          int             `json:"end_day"`
	Event           CropEventDetail `json:"event"`
}

type CropEventDetail struct {
	Identifier    string `json:"identifier"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Nutshell      string `json:"nutshell,omitempty"`
	EventCategory string `json:"event_category,omitempty"`
	EventType     string `json:"event_type,omitempty"`
	Importance    int    `json:"importance,omitempty"`
}

// CropCycle is an agronomy calendar for a crop under a Köppen climate class.
type CropCycle struct {
	ID                          int64       `json:"id"`
	CropID                      string      `json:"crop_id"`
	KoppenClimateClassification string      `json:"koppen_climate_classification"`
	Stages                      []CropStage `json:"stages"`
	Events                      []CropEvent `json:"events"`
}

// Gender constants.
const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

// ContactRole constants.
const (
	RoleFarmer           = "farmer"
	RoleExtensionOfficer = "extension_officer"
	RoleAggregator       = "aggregator"
	RoleInputSupplier    = "input_supplier"
)

// EngagementType constants.
const (
	EngagementCall     = "call"
	EngagementVisit    = "visit"
	EngagementMessage  = "message"
	EngagementTraining = "training"
	EngagementFieldDay = "field_day"
)

// Message direction constants.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)
