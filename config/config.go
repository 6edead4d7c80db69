// Package config loads the description of a coupled run: which ports exist,
// which component backs each of them, in which orders they are driven, and
// how values flow between them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// NameList is a list of port names. In YAML it is either a list or a single
// string delimited by colons or commas.
type NameList []string

// ParseNameList splits a colon or comma delimited string.
func ParseNameList(s string) NameList {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == ','
	})

	names := make(NameList, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			names = append(names, f)
		}
	}

	return names
}

// UnmarshalYAML accepts both forms of a name list.
func (l *NameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = ParseNameList(node.Value)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}

		*l = NameList(names)

		return nil
	default:
		return fmt.Errorf("line %d: expected a name list", node.Line)
	}
}

// String joins the names with commas.
func (l NameList) String() string {
	return strings.Join(l, ",")
}

// Component selects the component behind a port.
type Component struct {
	Component     string         `yaml:"component"`
	Args          map[string]any `yaml:"args"`
	TemplateFiles []string       `yaml:"template_files"`
}

// Mapper describes how a variable of one port feeds a variable of another.
type Mapper struct {
	SrcPort     string  `yaml:"src_port"`
	SrcVar      string  `yaml:"src_var"`
	DstPort     string  `yaml:"dst_port"`
	DstVar      string  `yaml:"dst_var"`
	Method      string  `yaml:"method"`
	FillValue   float64 `yaml:"fill_value"`
	Unmapped    string  `yaml:"unmapped"`
	SrcLocation string  `yaml:"src_location"`
	DstLocation string  `yaml:"dst_location"`
}

// Config is the description of a coupled run.
type Config struct {
	Name          string               `yaml:"name"`
	Driver        string               `yaml:"driver"`
	Ports         NameList             `yaml:"ports"`
	OptionalPorts NameList             `yaml:"optional_ports"`
	InitOrder     NameList             `yaml:"init_order"`
	RunOrder      NameList             `yaml:"run_order"`
	FinalizeOrder NameList             `yaml:"finalize_order"`
	PortQueueDt   float64              `yaml:"port_queue_dt"`
	EndTime       float64              `yaml:"end_time"`
	Components    map[string]Component `yaml:"components"`
	Mappers       []Mapper             `yaml:"mappers"`
	Parameters    map[string]any       `yaml:"parameters"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse checks a YAML document against the schema, decodes it, fills in
// defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func checkSchema(raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		panic(err)
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	err := schema.Unify(doc).Validate(cue.Concrete(true))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConfiguration,
			strings.TrimSpace(cueerrors.Details(err, nil)))
	}

	return nil
}

func (c *Config) applyDefaults() {
	for i := range c.Mappers {
		m := &c.Mappers[i]

		if m.DstVar == "" {
			m.DstVar = m.SrcVar
		}

		if m.Method == "" {
			m.Method = "auto"
		}

		if m.Unmapped == "" {
			m.Unmapped = "ignore"
		}
	}
}

// AllPorts returns the declared ports followed by optional ports that are
// not declared in ports.
func (c *Config) AllPorts() []string {
	all := append([]string(nil), c.Ports...)

	for _, p := range c.OptionalPorts {
		if !slices.Contains(all, p) {
			all = append(all, p)
		}
	}

	return all
}

// IsOptional tells if a port may fail without aborting the run.
func (c *Config) IsOptional(port string) bool {
	return slices.Contains(c.OptionalPorts, port)
}

// Orders returns the init, run and finalize orders. An order that is not
// given follows declaration order.
func (c *Config) Orders() (initOrder, runOrder, finalizeOrder []string) {
	all := c.AllPorts()
	pick := func(l NameList) []string {
		if len(l) == 0 {
			return all
		}

		return l
	}

	return pick(c.InitOrder), pick(c.RunOrder), pick(c.FinalizeOrder)
}

// Validate checks that ports, orders, components and mappers agree.
func (c *Config) Validate() error {
	all := c.AllPorts()
	if len(all) == 0 {
		return fieldError("ports", "no ports")
	}

	seen := make(map[string]bool)
	for _, p := range c.Ports {
		if seen[p] {
			return fieldError("ports", "%q is listed twice", p)
		}

		seen[p] = true
	}

	if c.Driver != "" && !slices.Contains(all, c.Driver) {
		return fieldError("driver", "%q is not a port", c.Driver)
	}

	orders := []struct {
		field string
		list  NameList
	}{
		{"init_order", c.InitOrder},
		{"run_order", c.RunOrder},
		{"finalize_order", c.FinalizeOrder},
	}
	for _, o := range orders {
		if err := checkPermutation(o.field, o.list, all); err != nil {
			return err
		}
	}

	for _, p := range all {
		comp, ok := c.Components[p]
		if !ok || comp.Component == "" {
			return fieldError("components", "port %q has no component", p)
		}
	}

	for name := range c.Components {
		if !slices.Contains(all, name) {
			return fieldError("components", "%q is not a port", name)
		}
	}

	for i, m := range c.Mappers {
		field := fmt.Sprintf("mappers[%d]", i)

		if !slices.Contains(all, m.SrcPort) {
			return fieldError(field, "unknown source port %q", m.SrcPort)
		}

		if !slices.Contains(all, m.DstPort) {
			return fieldError(field, "unknown destination port %q", m.DstPort)
		}
	}

	if c.PortQueueDt < 0 {
		return fieldError("port_queue_dt", "must not be negative")
	}

	return nil
}

// checkPermutation accepts an empty order or one that lists every port
// exactly once.
func checkPermutation(field string, order NameList, all []string) error {
	if len(order) == 0 {
		return nil
	}

	if len(order) != len(all) {
		return fieldError(field, "lists %d ports, %d are declared", len(order), len(all))
	}

	seen := make(map[string]bool, len(order))
	for _, p := range order {
		if !slices.Contains(all, p) {
			return fieldError(field, "%q is not a port", p)
		}

		if seen[p] {
			return fieldError(field, "%q is listed twice", p)
		}

		seen[p] = true
	}

	return nil
}
