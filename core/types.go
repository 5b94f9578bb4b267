package core

import "github.com/santiagomed/dapp/contract"

// ComponentKind is the role a planned component plays in the app.
type ComponentKind string

const (
	KindLayout  ComponentKind = "layout"
	KindFeature ComponentKind = "feature"
	KindUI      ComponentKind = "ui"
)

// ComponentSpec describes one component before any code exists for it.
type ComponentSpec struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Kind        ComponentKind `json:"type" yaml:"type"`
}

type Theme struct {
	PrimaryColor string `json:"primaryColor" yaml:"primary_color"`
	Style        string `json:"style" yaml:"style"`
}

// Plan is the ordered list of components to build. Components are generated
// in slice order and later ones may reference earlier ones by name.
type Plan struct {
	AppName     string          `json:"appName" yaml:"app_name"`
	Description string          `json:"description" yaml:"description"`
	Theme       Theme           `json:"theme" yaml:"theme"`
	Components  []ComponentSpec `json:"components" yaml:"components"`
}

// Names returns the component names in generation order.
func (p *Plan) Names() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.Components))
	for i, c := range p.Components {
		out[i] = c.Name
	}
	return out
}

type GeneratedComponent struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Result is everything one pipeline run produced.
type Result struct {
	Plan       *Plan
	Components []GeneratedComponent
	Source     string
	ABI        contract.ABI
	Address    string
}
