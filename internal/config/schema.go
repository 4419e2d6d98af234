package config

// SchemaField documents one setting for `config schema`.
type SchemaField struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	EnvVar      string   `json:"env_var,omitempty"`
	EnvAliases  []string `json:"env_aliases,omitempty"`
	Default     string   `json:"default,omitempty"`
	Required    bool     `json:"required"`
	Section     string   `json:"section,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Sensitive   bool     `json:"sensitive,omitempty"`
	ValidValues []string `json:"valid_values,omitempty"`
}

// SchemaProvider documents one provider
type SchemaProvider struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Description string        `json:"description"`
	Fields      []SchemaField `json:"fields"`
}

// Schema lists every setting the resolver understands
type Schema struct {
	Global    []SchemaField    `json:"global_settings"`
	Providers []SchemaProvider `json:"providers"`
}

func validValues(name string) []string {
	switch name {
	case "provider":
		return ProviderNames()
	case "frontend":
		return ValidFrontends
	case "output_format":
		return ValidOutputFormats
	case "debug":
		return ValidDebugLevels
	default:
		return nil
	}
}

func schemaField(f FieldMeta) SchemaField {
	return SchemaField{
		Name:        f.Name,
		Description: f.Description,
		EnvVar:      f.EnvVar,
		EnvAliases:  f.EnvAliases,
		Default:     f.Default,
		Required:    f.Required,
		Section:     string(f.Section),
		Deprecated:  f.Deprecated,
		Sensitive:   f.Sensitive,
	}
}

// BuildSchema collects the metadata tables into a Schema
func BuildSchema() Schema {
	var s Schema
	for _, f := range GlobalFields {
		sf := schemaField(f)
		sf.ValidValues = validValues(f.Name)
		s.Global = append(s.Global, sf)
	}
	for _, meta := range ProviderTable {
		sp := SchemaProvider{
			Name:        string(meta.Name),
			DisplayName: meta.DisplayName,
			Description: meta.Description,
		}
		for _, f := range meta.AllFields() {
			sp.Fields = append(sp.Fields, schemaField(f))
		}
		s.Providers = append(s.Providers, sp)
	}
	return s
}
