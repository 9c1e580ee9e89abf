package model

type Customer struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);not null" json:"name" validate:"notblank"`
	Address     *string `gorm:"type:varchar(255)" json:"address"`
	Phone       *string `gorm:"type:varchar(50)" json:"phone"`
	Cedula      *string `gorm:"type:varchar(50)" json:"cedula"`
	Description *string `gorm:"type:text" json:"description"`
}
