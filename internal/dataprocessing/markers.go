package dataprocessing

import "esccli/pkg/contracts/domain"

// Markers are the literal tokens that delimit bands and fields in a QDART
// test report. The report is XML but is scanned as flat text.
type Markers struct {
	// BandPrefix precedes the band name, e.g. "ESC LTE " + "B12"
	BandPrefix string
	// DiversityAnchor closes the primary block; diversity sections follow it
	DiversityAnchor string
	// Terminal bounds the last diversity section
	Terminal string

	LNABlock          string
	ChannelTerminator string
	OffsetLabel       string

	MaxPowerLabel string
	MinPowerLabel string

	ValueOpen  string
	ValueClose string
}

// DefaultMarkers returns the tokens used by QDART ESC LTE reports
func DefaultMarkers() Markers {
	return Markers{
		BandPrefix:        "ESC LTE ",
		DiversityAnchor:   "ESC LTE B17</ExtendedName><NodeName>ESC LTE B17</NodeName>",
		Terminal:          "Run_RSB_Pcell_Tx_LO_Cal",
		LNABlock:          "LNA",
		ChannelTerminator: "Channel",
		OffsetLabel:       "RxFCompLNAOffset",
		MaxPowerLabel:     "Tx Lin Swp Max Power",
		MinPowerLabel:     "Tx Lin Swp Min Power",
		ValueOpen:         "<V>",
		ValueClose:        "</V>",
	}
}

// Band returns the start marker of a band section
func (m Markers) Band(b domain.BandID) string {
	return m.BandPrefix + b.MarkerName()
}

// PowerLabel returns the sweep key for a power limit
func (m Markers) PowerLabel(limit domain.PowerLimit) string {
	if limit == domain.PowerLimitMin {
		return m.MinPowerLabel
	}
	return m.MaxPowerLabel
}
