package models

import "time"

// File is the metadata row for one uploaded file. The bytes themselves live
// in the configured FileStore under Name. IDs are auto-increment and strictly
// increasing in creation order; cursor pagination relies on that.
type File struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	OriginalName string    `json:"originalName" gorm:"type:varchar(255);not null"`
	FileType     string    `json:"fileType" gorm:"type:varchar(255);not null"`
	FileHash     string    `json:"fileHash" gorm:"type:varchar(64);not null"`
	FileSizeInKB uint64    `json:"fileSizeInKB" gorm:"not null;default:0"`
	UploadedBy   uint      `json:"uploadedBy" gorm:"not null;index"`
	UploadedByIP string    `json:"uploadedByIp" gorm:"type:varchar(64);not null;default:'-'"`
	CreatedAt    time.Time `json:"createdAt"`

	Uploader User `json:"-" gorm:"foreignKey:UploadedBy;references:ID"`
}
