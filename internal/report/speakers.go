package report

import "strings"

// SpeakerProfile describes one member of the dubbing cast. The table drives
// the name matching in both analyses and the casting section of the workload
// report.
type SpeakerProfile struct {
	Name                 string
	Role                 string
	Available            bool
	Description          string
	VoiceCharacteristics string
	CastingGuidance      string
}

// SpeakerProfiles is the studio cast in report order.
var SpeakerProfiles = []SpeakerProfile{
	{Name: "Lucas", Role: "Narrator", Available: true, Description: "Erzähler"},
	{Name: "Chaos", Role: "Speaker (Female)", Available: true, Description: "Sprecherin",
		VoiceCharacteristics: "Gute Tonhöhenvielfalt und Emotionalität",
		CastingGuidance:      "Gut für Erwachsene sowie Kinderrollen geeignet"},
	{Name: "Sira", Role: "Speaker (Female)", Available: false, Description: "Sprecherin",
		VoiceCharacteristics: "Kann ihre Stimme nicht sehr variieren, klingt jung",
		CastingGuidance:      "Für junge Charaktere geeignet"},
	{Name: "Jade", Role: "Speaker (Female)", Available: false, Description: "Sprecherin",
		VoiceCharacteristics: "Tiefere, ältere Stimme mit guter Tonhöhenvielfalt, emotional",
		CastingGuidance:      "Gut für erwachsene und reife Charaktere"},
	{Name: "Belli", Role: "Speaker (Female)", Available: true, Description: "Sprecherin"},
	{Name: "Drystan", Role: "Speaker (Male)", Available: true, Description: "Sprecher",
		VoiceCharacteristics: "Junge Männerstimme",
		CastingGuidance:      "Gut für Teenager geeignet"},
	{Name: "Holger", Role: "Speaker (Male)", Available: true, Description: "Sprecher",
		VoiceCharacteristics: "Alte Männerstimme",
		CastingGuidance:      "Gut für ältere Zivis/Täter"},
	{Name: "Martin", Role: "Speaker (Male)", Available: true, Description: "Sprecher",
		VoiceCharacteristics: "Tiefe junge Stimme",
		CastingGuidance:      "Passt immer gut auf Cops"},
	{Name: "Marcel", Role: "Speaker (Male)", Available: true, Description: "Sprecher",
		VoiceCharacteristics: "Tief und jung, gut mit Emotionen",
		CastingGuidance:      "Passt gut auf Täter"},
	{Name: "Nils", Role: "Speaker (Male)", Available: true, Description: "Sprecher",
		VoiceCharacteristics: "Eher junge tiefe Stimme, nicht sehr emotional",
		CastingGuidance:      "Für ruhigere Charaktere geeignet"},
	{Name: "Marco", Role: "Speaker (Male)", Available: true, Description: "Sprecher"},
	{Name: "Jessica", Role: "Speaker (Female)", Available: true, Description: "Sprecherin"},
}

// SpeakerNames returns the cast names in profile order.
func SpeakerNames() []string {
	names := make([]string, len(SpeakerProfiles))
	for i, p := range SpeakerProfiles {
		names[i] = p.Name
	}
	return names
}

// GetSpeakerProfile looks a speaker up by name, falling back to a generic
// profile for names outside the table.
func GetSpeakerProfile(name string) SpeakerProfile {
	for _, p := range SpeakerProfiles {
		if p.Name == name {
			return p
		}
	}
	return SpeakerProfile{Name: name, Role: "Speaker"}
}

// MatchSpeaker returns the first cast member whose name appears in text,
// case-insensitively. Checklist items carry speaker names in free text
// ("Jade - Zeugin"), so substring matching is the contract.
func MatchSpeaker(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range SpeakerProfiles {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.Name, true
		}
	}
	return "", false
}
