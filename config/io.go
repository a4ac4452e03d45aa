package config

// IOConfig locates the input document and the output schedule.
type IOConfig struct {
	// Input is the path of the JSON document holding presentations,
	// jury-only professors and unavailability constraints.
	Input string `json:"input"`
	// Output is the path the schedule document is written to.
	Output string `json:"output"`
}

// SetDefaults applies sane defaults.
func (c *IOConfig) SetDefaults() {
	if c.Input == "" {
		c.Input = "presentations.json"
	}
	if c.Output == "" {
		c.Output = "schedule.json"
	}
}
