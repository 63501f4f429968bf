package db

type Hero struct {
	Id          int64
	Name        string
	Role        string
	Description string
	Quote       string
	RealName    string
	Age         string
	Nationality string
	Occupation  string
	Base        string
	Affiliation string
	Health      string
	Armor       string
	Shield      string
	PickRate    float64
	WinRate     float64
	TieRate     float64
	OnfireRate  float64
	PoseUrl     string
}

type Ability struct {
	Id          int64
	Name        string
	Description string
	Stats       string
	Heroid      int64
	VideoUrl    string
}
