package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

type Admin struct {
	ID               string    `gorm:"primaryKey;size:36"  bson:"_id"                        json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" bson:"email"                      json:"email"`
	PasswordHash     string    `gorm:"not null"            bson:"password"                   json:"-"`
	Name             string    `gorm:"not null"            bson:"name"                       json:"name"`
	Avatar           string    `bson:"avatar,omitempty"           json:"avatar,omitempty"`
	Role             Role      `gorm:"not null"            bson:"role"                       json:"role"`
	RefreshTokenHash string    `bson:"refreshTokenHash,omitempty" json:"-"`
	IsActive         bool      `gorm:"index;not null"      bson:"isActive"                   json:"isActive"`
	CreatedAt        time.Time `bson:"createdAt"                  json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"                  json:"updatedAt"`
}

// HasSession reports whether a refresh token is currently outstanding.
func (a *Admin) HasSession() bool { return a.RefreshTokenHash != "" }

type ServiceCategory string

const (
	ServiceExtensions ServiceCategory = "extensions"
	ServiceManicure   ServiceCategory = "manicure"
	ServiceNailArt    ServiceCategory = "nail-art"
	ServicePedicure   ServiceCategory = "pedicure"
	ServiceSpa        ServiceCategory = "spa"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceExtensions, ServiceManicure, ServiceNailArt, ServicePedicure, ServiceSpa:
		return true
	}
	return false
}

type Service struct {
	ID          string          `gorm:"primaryKey;size:36" bson:"_id"                json:"id"`
	Name        string          `gorm:"not null"           bson:"name"               json:"name"`
	Description string          `gorm:"not null"           bson:"description"        json:"description"`
	Price       float64         `gorm:"not null"           bson:"price"              json:"price"`
	Duration    int             `gorm:"not null"           bson:"duration"           json:"duration"`
	Category    ServiceCategory `gorm:"index;not null"     bson:"category"           json:"category"`
	ImageURL    string          `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Featured    bool            `gorm:"index"              bson:"featured"           json:"featured"`
	IsActive    bool            `gorm:"index"              bson:"isActive"           json:"isActive"`
	SortIndex   int             `bson:"sortIndex"          json:"sortIndex"`
	CreatedAt   time.Time       `bson:"createdAt"          json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"          json:"updatedAt"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type CustomerInfo struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName"  json:"lastName"`
	Email     string `bson:"email"     json:"email"`
	Phone     string `bson:"phone"     json:"phone"`
}

type Booking struct {
	ID           string        `gorm:"primaryKey;size:36"                      bson:"_id"             json:"id"`
	ServiceID    string        `gorm:"index;not null;size:36"                  bson:"serviceId"       json:"serviceId"`
	Date         string        `gorm:"index;not null;size:10"                  bson:"date"            json:"date"`
	TimeSlot     string        `gorm:"not null;size:5"                         bson:"timeSlot"        json:"timeSlot"`
	CustomerInfo CustomerInfo  `gorm:"embedded;embeddedPrefix:customer_"       bson:"customerInfo"    json:"customerInfo"`
	Notes        string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Status       BookingStatus `gorm:"index;not null"                          bson:"status"          json:"status"`
	CreatedAt    time.Time     `bson:"createdAt"       json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt"       json:"updatedAt"`
}

type GalleryCategory string

const (
	GalleryAll        GalleryCategory = "all"
	GalleryExtensions GalleryCategory = "extensions"
	GalleryManicure   GalleryCategory = "manicure"
	GalleryNailArt    GalleryCategory = "nail-art"
	GalleryPedicure   GalleryCategory = "pedicure"
	GallerySeasonal   GalleryCategory = "seasonal"
)

func (c GalleryCategory) Valid() bool {
	switch c {
	case GalleryAll, GalleryExtensions, GalleryManicure, GalleryNailArt, GalleryPedicure, GallerySeasonal:
		return true
	}
	return false
}

type GalleryItem struct {
	ID          string          `gorm:"primaryKey;size:36" bson:"_id"                   json:"id"`
	ImageURL    string          `gorm:"not null"           bson:"imageUrl"              json:"imageUrl"`
	Title       string          `gorm:"not null"           bson:"title"                 json:"title"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Category    GalleryCategory `gorm:"index;not null"     bson:"category"              json:"category"`
	Price       string          `bson:"price,omitempty"       json:"price,omitempty"`
	Duration    string          `bson:"duration,omitempty"    json:"duration,omitempty"`
	Featured    bool            `gorm:"index"              bson:"featured"              json:"featured"`
	IsActive    bool            `gorm:"index"              bson:"isActive"              json:"isActive"`
	SortIndex   int             `bson:"sortIndex"             json:"sortIndex"`
	CreatedAt   time.Time       `bson:"createdAt"             json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"             json:"updatedAt"`
}

// TableName keeps the gorm table in line with the mongo collection name.
func (GalleryItem) TableName() string { return "gallery" }
