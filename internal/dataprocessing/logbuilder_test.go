package dataprocessing

import (
	"fmt"
	"strings"

	"esccli/pkg/contracts/domain"
)

// testLog describes a synthetic QDART report. Bands absent from maxPower,
// minPower or offsets carry no such entries.
type testLog struct {
	maxPower map[domain.BandID][]string
	minPower map[domain.BandID][]string
	offsets  map[domain.BandID][]string
	// noLNA drops the LNA block of a band
	noLNA map[domain.BandID]bool
	// noHeader drops the section marker of a band
	noHeader   map[domain.BandID]bool
	noAnchor   bool
	noTerminal bool
}

// fullLog returns a well-formed log: four sweep entries per primary band and
// a canonical-length offset series for every band. seed shifts every value.
func fullLog(seed int) testLog {
	tl := testLog{
		maxPower: make(map[domain.BandID][]string),
		minPower: make(map[domain.BandID][]string),
		offsets:  make(map[domain.BandID][]string),
	}
	for _, band := range domain.AllBands() {
		spec := band.Spec()
		if band.Family() == domain.BandFamilyPrimary {
			tl.maxPower[band] = []string{
				fmt.Sprintf("%d.5", 20+seed), fmt.Sprintf("%d.25", 10+seed),
				fmt.Sprintf("%d.0", 22+seed), fmt.Sprintf("%d.75", 12+seed),
			}
			tl.minPower[band] = []string{
				fmt.Sprintf("-%d.5", 40+seed), fmt.Sprintf("-%d.25", 50+seed),
				fmt.Sprintf("-%d.0", 42+seed), fmt.Sprintf("-%d.75", 52+seed),
			}
		}
		values := make([]string, spec.CanonicalLength())
		for i := range values {
			values[i] = fmt.Sprint(seed + i - 10)
		}
		tl.offsets[band] = values
	}
	return tl
}

func (tl testLog) String() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><TestReport><Node><NodeName>Preamble</NodeName></Node>`)

	for _, band := range domain.AllBands() {
		spec := band.Spec()
		b.WriteString("<Node>")
		switch {
		case tl.noHeader[band]:
			b.WriteString("<ExtendedName>missing</ExtendedName>")
		case band == domain.BandB17 && tl.noAnchor:
			b.WriteString("<ExtendedName>ESC LTE B17</ExtendedName><NodeName>B17 primary</NodeName>")
		case band.Family() == domain.BandFamilyPrimary:
			fmt.Fprintf(&b, "<ExtendedName>%s</ExtendedName><NodeName>%s</NodeName>", spec.Title(), spec.Title())
		default:
			fmt.Fprintf(&b, "<ExtendedName>%s</ExtendedName>", spec.Title())
		}

		for _, v := range tl.maxPower[band] {
			fmt.Fprintf(&b, "<Item><N>Tx Lin Swp Max Power</N><V>%s</V></Item>", v)
		}
		for _, v := range tl.minPower[band] {
			fmt.Fprintf(&b, "<Item><N>Tx Lin Swp Min Power</N><V>%s</V></Item>", v)
		}

		if !tl.noLNA[band] {
			b.WriteString("<Group><N>RxFreqComp LNA Offsets</N>")
			for _, v := range tl.offsets[band] {
				fmt.Fprintf(&b, "<Row><N>Channel</N><V>%s</V><N>RxFCompLNAOffset</N><V>%s</V></Row>", spec.TargetChannel, v)
			}
			b.WriteString("<Row><N>Channel</N><V>0</V></Row></Group>")
		}
		b.WriteString("</Node>")
	}

	if !tl.noTerminal {
		b.WriteString("<Node><NodeName>Run_RSB_Pcell_Tx_LO_Cal</NodeName></Node>")
	}
	b.WriteString("</TestReport>")
	return b.String()
}

func (tl testLog) blob(id string) domain.LogBlob {
	return domain.LogBlob{ID: id, Text: tl.String()}
}
