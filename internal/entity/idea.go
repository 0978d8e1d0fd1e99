package entity

type Idea struct {
	Base

	OwnerID     string `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Category    string `gorm:"index"`

	IsPublic     bool `gorm:"index"`
	ChainStopped bool
	ViewCount    int64

	AttachmentRefs Array[string]
}
