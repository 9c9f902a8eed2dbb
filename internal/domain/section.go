package domain

// Section is one navigable content region of the page.
//
// Sections are declared in the site file and live for the whole page session.
// Exactly one section is visible at a time.
type Section struct {
	// ID is the section identifier, also used as the URL fragment.
	// Example: "profile", "blog"
	ID string `yaml:"id" json:"id"`

	// Title is the label shown in the navigation bar.
	Title string `yaml:"title" json:"title"`

	// Body is static HTML written by the site owner.
	Body string `yaml:"body,omitempty" json:"body,omitempty"`

	// Remote marks the section whose content comes from the remote endpoint.
	// Activating it triggers the posts and comments list fetches.
	Remote bool `yaml:"remote,omitempty" json:"remote,omitempty"`

	// Recommendations places the recommendation form in this section.
	Recommendations bool `yaml:"recommendations,omitempty" json:"recommendations,omitempty"`
}

// SectionIDs returns the identifiers of the given sections in declaration order.
func SectionIDs(sections []Section) []string {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.ID)
	}
	return ids
}
