package models

// Street is the street entity embedded in every indexed address.
type Street struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Admins   []*Admin `json:"administrative_regions"`
	Weight   float64  `json:"weight"`
	ZipCodes []string `json:"zip_codes"`
	Coord    Coord    `json:"coord"`
}

// Addr is the canonical indexed address entity produced by the import
// pipeline.
type Addr struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	HouseNumber string   `json:"house_number"`
	Street      Street   `json:"street"`
	Label       string   `json:"label"`
	Coord       Coord    `json:"coord"`
	Weight      float64  `json:"weight"`
	ZipCodes    []string `json:"zip_codes"`
}
