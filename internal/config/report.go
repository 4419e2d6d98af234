package config

import (
	"encoding/json"
	"strconv"
)

// NotSet is shown for values no layer supplied
const NotSet = "(not set)"

// ReportEntry is one field as shown by `config`.
type ReportEntry struct {
	Name        string
	Description string
	Value       string
	Set         bool
	Source      Source
	Origin      string
	Deprecated  bool
}

// ReportSection groups global entries under a heading
type ReportSection struct {
	Title   Section
	Entries []ReportEntry
}

// ProviderReport lists one provider's fields
type ProviderReport struct {
	Name        Provider
	DisplayName string
	Active      bool
	Entries     []ReportEntry
}

// Report is a read-only view of a Config for display.
type Report struct {
	Sections  []ReportSection
	Providers []ProviderReport
	Files     []FileStatus
}

// MaskValue hides all but the last six characters of a secret.
func MaskValue(s string) string {
	if s == "" || s == NotSet {
		return s
	}
	if len(s) > 6 {
		return "****" + s[len(s)-6:]
	}
	return "****"
}

// Report builds the display view of the configuration. Deprecated fields
// still at their default are omitted. Providers are listed when active or
// when any of their values came from a non-default layer.
func (c *Config) Report() Report {
	r := Report{Files: c.Files}

	for _, section := range DisplaySections {
		rs := ReportSection{Title: section}
		for _, f := range GlobalFields {
			if f.Section != section {
				continue
			}
			entry := c.globalEntry(f)
			if f.Deprecated && entry.Source == SourceDefault {
				continue
			}
			rs.Entries = append(rs.Entries, entry)
		}
		if len(rs.Entries) > 0 {
			r.Sections = append(r.Sections, rs)
		}
	}

	for _, meta := range ProviderTable {
		pr := ProviderReport{
			Name:        meta.Name,
			DisplayName: meta.DisplayName,
			Active:      meta.Name == c.Provider.Value,
		}
		customized := false
		creds := c.Providers[meta.Name]
		for _, f := range meta.AllFields() {
			path := string(meta.Name) + "." + f.Name
			value := creds.Field(f.Name)
			entry := ReportEntry{
				Name:        f.Name,
				Description: f.Description,
				Value:       value,
				Set:         value != "",
				Source:      c.Source(path),
				Origin:      c.Origin(path),
			}
			if !entry.Set {
				entry.Value = NotSet
			} else if f.Sensitive {
				entry.Value = MaskValue(value)
			}
			if entry.Source != SourceDefault {
				customized = true
			}
			pr.Entries = append(pr.Entries, entry)
		}
		if pr.Active || customized {
			r.Providers = append(r.Providers, pr)
		}
	}
	return r
}

func (c *Config) globalEntry(f FieldMeta) ReportEntry {
	entry := ReportEntry{
		Name:        f.Name,
		Description: f.Description,
		Deprecated:  f.Deprecated,
		Source:      c.Source(f.Name),
		Origin:      c.Origin(f.Name),
		Set:         true,
	}

	switch f.Name {
	case "provider":
		entry.Value = string(c.Provider.Value)
	case "model":
		entry.Value = c.Model.Value
	case "temperature":
		entry.Value = strconv.FormatFloat(float64(c.Temperature.Value), 'f', -1, 32)
	case "suggestion_count":
		entry.Value = strconv.FormatUint(uint64(c.SuggestionCount.Value), 10)
	case "skip_confirm":
		entry.Value = strconv.FormatBool(c.skipConfirm)
		if c.skipConfirm {
			entry.Source = SourceEnv
			entry.Origin = EnvSkipConfirm
		}
	case "frontend":
		entry.Value = string(c.Frontend.Value)
	case "output_format":
		entry.Value = string(c.OutputFormat.Value)
	case "max_reference_chars":
		entry.Value = strconv.FormatUint(uint64(c.MaxReferenceChars.Value), 10)
	case "max_tokens":
		if c.MaxTokens.Value != 0 {
			entry.Value = strconv.FormatUint(uint64(c.MaxTokens.Value), 10)
		}
	case "debug":
		entry.Value = string(c.Debug.Value)
	case "locale":
		switch {
		case c.Locale.Value == nil:
			entry.Value = "(auto)"
			entry.Set = false
		case *c.Locale.Value == "":
			entry.Value = "(disabled)"
		default:
			entry.Value = *c.Locale.Value
		}
		return entry
	}

	if entry.Value == "" {
		entry.Value = NotSet
		entry.Set = false
	}
	return entry
}

type jsonEntry struct {
	Value      *string `json:"value"`
	Source     Source  `json:"source"`
	Origin     string  `json:"origin"`
	Deprecated bool    `json:"deprecated,omitempty"`
}

type jsonFile struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func toJSONEntry(e ReportEntry) jsonEntry {
	je := jsonEntry{Source: e.Source, Origin: e.Origin, Deprecated: e.Deprecated}
	if e.Set {
		v := e.Value
		je.Value = &v
	}
	return je
}

// MarshalJSON renders the report as
// {"global": {...}, "providers": {...}, "config_files": {...}}.
func (r Report) MarshalJSON() ([]byte, error) {
	global := map[string]jsonEntry{}
	for _, s := range r.Sections {
		for _, e := range s.Entries {
			global[e.Name] = toJSONEntry(e)
		}
	}

	providers := map[string]map[string]jsonEntry{}
	for _, p := range r.Providers {
		fields := map[string]jsonEntry{}
		for _, e := range p.Entries {
			fields[e.Name] = toJSONEntry(e)
		}
		providers[string(p.Name)] = fields
	}

	files := map[string]jsonFile{}
	for _, f := range r.Files {
		files[string(f.Kind)] = jsonFile{Path: f.Path, Exists: f.Exists}
	}

	return json.Marshal(struct {
		Global      map[string]jsonEntry            `json:"global"`
		Providers   map[string]map[string]jsonEntry `json:"providers"`
		ConfigFiles map[string]jsonFile             `json:"config_files"`
	}{global, providers, files})
}
