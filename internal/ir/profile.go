package ir

// ProfileInfo is the descriptive text stored in a profile.
type ProfileInfo struct {
	Description  string
	Manufacturer string
	Model        string
	Copyright    string
}
