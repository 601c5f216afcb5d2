package domain

import "fmt"

// BandFamily groups band segments by the antenna path they were measured on
type BandFamily string

const (
	BandFamilyPrimary   BandFamily = "primary"
	BandFamilyDiversity BandFamily = "diversity"
)

// BandID identifies one of the ten ESC LTE band segments found in a log.
// The zero value is not a valid band.
type BandID int

const (
	BandB2 BandID = iota + 1
	BandB4
	BandB5
	BandB12
	BandB13
	BandB17
	BandB5Diversity
	BandB12Diversity
	BandB13Diversity
	BandB17Diversity
)

// RxLevel is one received-signal level of an LNA offset table.
// Levels repeat (-40 dBm appears three times), so Index is the identity.
type RxLevel struct {
	Index int `json:"index"`
	DBm   int `json:"dbm"`
}

// Label renders the level the way report sheets show it
func (l RxLevel) Label() string {
	return fmt.Sprintf("RxLvl %d", l.DBm)
}

// StandardRxLevels is the RxLevel order in which LNA offsets are recorded
var StandardRxLevels = []RxLevel{
	{Index: 0, DBm: -61},
	{Index: 1, DBm: -60},
	{Index: 2, DBm: -50},
	{Index: 3, DBm: -40},
	{Index: 4, DBm: -40},
	{Index: 5, DBm: -40},
}

// BandSpec describes how a band is located in a log and how its LNA table is shaped
type BandSpec struct {
	ID            BandID     `json:"id"`
	Name          string     `json:"name"`
	Number        int        `json:"number"`
	Family        BandFamily `json:"family"`
	TargetChannel string     `json:"target_channel"`
	// Devices lists the device labels in the order their offsets appear in a series
	Devices  []string  `json:"devices"`
	RxLevels []RxLevel `json:"rx_levels"`
}

// CanonicalLength is the number of offsets a complete series holds for the band
func (s BandSpec) CanonicalLength() int {
	return len(s.Devices) * len(s.RxLevels)
}

// Title is the section heading used in reports, e.g. "ESC LTE B5 Diversity"
func (s BandSpec) Title() string {
	return "ESC LTE " + s.Name
}

var bandSpecs = map[BandID]BandSpec{
	BandB2:           {ID: BandB2, Name: "B2", Number: 2, Family: BandFamilyPrimary, TargetChannel: "18900", Devices: []string{"Dev0", "Dev2", "Dev1", "Dev3"}, RxLevels: StandardRxLevels},
	BandB4:           {ID: BandB4, Name: "B4", Number: 4, Family: BandFamilyPrimary, TargetChannel: "20190", Devices: []string{"Dev0", "Dev2", "Dev1", "Dev3"}, RxLevels: StandardRxLevels},
	BandB5:           {ID: BandB5, Name: "B5", Number: 5, Family: BandFamilyPrimary, TargetChannel: "20512", Devices: []string{"Dev0"}, RxLevels: StandardRxLevels},
	BandB12:          {ID: BandB12, Name: "B12", Number: 12, Family: BandFamilyPrimary, TargetChannel: "23100", Devices: []string{"Dev0"}, RxLevels: StandardRxLevels},
	BandB13:          {ID: BandB13, Name: "B13", Number: 13, Family: BandFamilyPrimary, TargetChannel: "23220", Devices: []string{"Dev0"}, RxLevels: StandardRxLevels},
	BandB17:          {ID: BandB17, Name: "B17", Number: 17, Family: BandFamilyPrimary, TargetChannel: "23779", Devices: []string{"Dev0"}, RxLevels: StandardRxLevels},
	BandB5Diversity:  {ID: BandB5Diversity, Name: "B5 Diversity", Number: 5, Family: BandFamilyDiversity, TargetChannel: "20512", Devices: []string{"Dev1"}, RxLevels: StandardRxLevels},
	BandB12Diversity: {ID: BandB12Diversity, Name: "B12 Diversity", Number: 12, Family: BandFamilyDiversity, TargetChannel: "23100", Devices: []string{"Dev1"}, RxLevels: StandardRxLevels},
	BandB13Diversity: {ID: BandB13Diversity, Name: "B13 Diversity", Number: 13, Family: BandFamilyDiversity, TargetChannel: "23220", Devices: []string{"Dev1"}, RxLevels: StandardRxLevels},
	BandB17Diversity: {ID: BandB17Diversity, Name: "B17 Diversity", Number: 17, Family: BandFamilyDiversity, TargetChannel: "23779", Devices: []string{"Dev1"}, RxLevels: StandardRxLevels},
}

// PrimaryBands is the order primary sections appear in a log
var PrimaryBands = []BandID{BandB2, BandB4, BandB5, BandB12, BandB13, BandB17}

// DiversityBands is the order diversity sections appear after the primary block
var DiversityBands = []BandID{BandB5Diversity, BandB12Diversity, BandB13Diversity, BandB17Diversity}

// AllBands returns every band in log order: primaries then diversities
func AllBands() []BandID {
	bands := make([]BandID, 0, len(PrimaryBands)+len(DiversityBands))
	bands = append(bands, PrimaryBands...)
	return append(bands, DiversityBands...)
}

// Spec returns the static description of the band
func (b BandID) Spec() BandSpec {
	return bandSpecs[b]
}

// Valid reports whether b is a known band
func (b BandID) Valid() bool {
	_, ok := bandSpecs[b]
	return ok
}

// String returns the band's display name
func (b BandID) String() string {
	if spec, ok := bandSpecs[b]; ok {
		return spec.Name
	}
	return fmt.Sprintf("BandID(%d)", int(b))
}

// Family returns the family the band belongs to
func (b BandID) Family() BandFamily {
	return bandSpecs[b].Family
}

// MarkerName is the band part of the section marker, e.g. "B12".
// Diversity sections reuse the marker of the primary band they repeat.
func (b BandID) MarkerName() string {
	return fmt.Sprintf("B%d", bandSpecs[b].Number)
}
