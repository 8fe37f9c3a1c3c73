package entity

type Medicine struct {
	Base

	Name            string `gorm:"uniqueIndex"`
	SaltComposition string
	Description     string
	Manufacturer    string
	Price           float64
	Alternatives    string
	SideEffects     string
}

func (Medicine) TableName() string {
	return "medicines"
}
