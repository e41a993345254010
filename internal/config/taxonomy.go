package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// OrgPlaceholder is the literal token in taxonomy names and definitions
// that is replaced with the organization name at load time.
const OrgPlaceholder = "{organization}"

// DefaultTaxonomyFile is the taxonomy file name searched for when no
// explicit path is configured.
const DefaultTaxonomyFile = "taxonomy.yaml"

// ErrTaxonomyNotFound is returned when the taxonomy file does not exist.
var ErrTaxonomyNotFound = errors.New("taxonomy file not found")

// ErrEmptyTaxonomy is returned when a taxonomy document has no sections.
var ErrEmptyTaxonomy = errors.New("taxonomy has no sections")

// Subsection is one leaf of the taxonomy: a named content category with a
// definition that tells the judgment source what belongs in it.
type Subsection struct {
	// Name is the subsection name, possibly containing OrgPlaceholder.
	Name string `yaml:"name" json:"name"`

	// Definition describes what content the subsection covers.
	Definition string `yaml:"definition" json:"definition"`
}

// Section groups an ordered list of subsections under one organizational
// area.
type Section struct {
	// Name is the section name, possibly containing OrgPlaceholder.
	Name string `yaml:"name" json:"name"`

	// Definition describes what content the section covers.
	Definition string `yaml:"definition" json:"definition"`

	// Subsections are the section's leaves, in document order.
	Subsections []Subsection `yaml:"subsections" json:"subsections"`
}

// Taxonomy is the configured tree of sections and subsections that pages
// are classified against. It is read-only for the duration of a run.
type Taxonomy struct {
	// Sections in document order. Classification results preserve this
	// order; they are never reordered by score.
	Sections []Section `yaml:"sections" json:"sections"`
}

// LoadTaxonomy reads and parses a taxonomy YAML file.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided taxonomy path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}

	var t Taxonomy
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	if len(t.Sections) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	return &t, nil
}

// FindTaxonomyFile locates the taxonomy file to use. An explicit path
// wins; otherwise the current directory and the XDG config directory are
// searched for DefaultTaxonomyFile. Returns "" when nothing is found.
func FindTaxonomyFile(explicit string) string {
	if explicit != "" {
		return explicit
	}

	candidates := []string{
		DefaultTaxonomyFile,
		filepath.Join(XDGConfigDir(), DefaultTaxonomyFile),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// Substitute returns a copy of the taxonomy with every occurrence of
// OrgPlaceholder in names and definitions replaced by org. The receiver
// is not modified.
func (t *Taxonomy) Substitute(org string) *Taxonomy {
	out := &Taxonomy{Sections: make([]Section, len(t.Sections))}
	for i, section := range t.Sections {
		copied := Section{
			Name:        strings.ReplaceAll(section.Name, OrgPlaceholder, org),
			Definition:  strings.ReplaceAll(section.Definition, OrgPlaceholder, org),
			Subsections: make([]Subsection, len(section.Subsections)),
		}
		for j, sub := range section.Subsections {
			copied.Subsections[j] = Subsection{
				Name:       strings.ReplaceAll(sub.Name, OrgPlaceholder, org),
				Definition: strings.ReplaceAll(sub.Definition, OrgPlaceholder, org),
			}
		}
		out.Sections[i] = copied
	}
	return out
}

// SubsectionCount returns the number of subsections across all sections.
func (t *Taxonomy) SubsectionCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Subsections)
	}
	return n
}

// DefaultTaxonomy returns the built-in taxonomy used when no taxonomy
// file is configured. It targets educational-institution websites, the
// original use case, but any taxonomy file can replace it.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Sections: []Section{
			{
				Name:       "Academics at " + OrgPlaceholder,
				Definition: "Degree programs, departments, courses, and faculty of " + OrgPlaceholder + ".",
				Subsections: []Subsection{
					{
						Name:       "Programs and Degrees",
						Definition: "Undergraduate and graduate degree programs, majors, minors, and certificates offered.",
					},
					{
						Name:       "Departments and Faculty",
						Definition: "Academic departments, schools, institutes, and faculty or staff directories.",
					},
					{
						Name:       "Research",
						Definition: "Research centers, laboratories, projects, publications, and research opportunities.",
					},
				},
			},
			{
				Name:       "Admissions at " + OrgPlaceholder,
				Definition: "How prospective students apply to and enroll at " + OrgPlaceholder + ".",
				Subsections: []Subsection{
					{
						Name:       "Application and Requirements",
						Definition: "Admission requirements, application procedures, deadlines, and how to apply.",
					},
					{
						Name:       "Tuition and Financial Aid",
						Definition: "Tuition, fees, scholarships, grants, and financial aid programs.",
					},
				},
			},
			{
				Name:       "Campus Life at " + OrgPlaceholder,
				Definition: "Student life, services, and facilities at " + OrgPlaceholder + ".",
				Subsections: []Subsection{
					{
						Name:       "Student Services and Facilities",
						Definition: "Campus facilities, housing, dining, libraries, and student support services.",
					},
					{
						Name:       "Activities and Community",
						Definition: "Student organizations, athletics, events, and community engagement.",
					},
					{
						Name:       "Contact and Visiting",
						Definition: "Contact information, campus maps, directions, and visit scheduling.",
					},
				},
			},
		},
	}
}
