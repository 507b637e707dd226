package models

import "time"

type Site struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`

	Devices []Device `gorm:"constraint:OnDelete:CASCADE"`
}

type Metric struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
	Unit string `gorm:"not null"`
	// Call names the sampling function in the registry.
	Call string `gorm:"not null;default:'mock'"`
}

type DeviceType struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`

	Metrics []Metric `gorm:"many2many:device_type_metrics;constraint:OnDelete:CASCADE"`
}

type Device struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"index"`
	SiteID       uint   `gorm:"not null"`
	DeviceTypeID uint   `gorm:"not null"`
	IsActive     bool   `gorm:"default:true"`

	Site       Site
	DeviceType DeviceType `gorm:"constraint:OnDelete:CASCADE"`

	Measurements []Measurement `gorm:"constraint:OnDelete:CASCADE"`
}

// Measurement rows are append-only: the collector inserts them and nothing
// ever updates them. They go away only through cascade when their device or
// metric is deleted.
type Measurement struct {
	ID        uint `gorm:"primaryKey"`
	DeviceID  uint `gorm:"index"`
	MetricID  uint `gorm:"index"`
	Value     float64
	Timestamp time.Time

	Device Device
	Metric Metric `gorm:"constraint:OnDelete:CASCADE"`
}
