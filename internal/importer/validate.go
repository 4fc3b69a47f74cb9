package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/journeyctl/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Validate checks a journey document against the schema and then for
// referential problems the schema cannot express. It returns every problem
// found.
func Validate(data []byte) []error {
	schema, err := compiledSchema()
	if err != nil {
		return []error{err}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []error{fmt.Errorf("parsing journey document: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaViolations(err)
	}

	var j domain.Journey
	if err := json.Unmarshal(data, &j); err != nil {
		return []error{fmt.Errorf("decoding journey document: %w", err)}
	}
	return validateReferences(&j)
}

func schemaViolations(err error) []error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []error{err}
	}
	var errs []error
	for _, v := range collectViolations(verr) {
		errs = append(errs, fmt.Errorf("%s", v))
	}
	return errs
}

// collectViolations flattens a ValidationError tree into leaf messages
// prefixed with their instance location.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}

func validateReferences(j *domain.Journey) []error {
	var errs []error

	nodes := make(map[string]bool, len(j.Nodes))
	for i, n := range j.Nodes {
		if nodes[n.ID] {
			errs = append(errs, fmt.Errorf("nodes[%d]: duplicate id %q", i, n.ID))
		}
		nodes[n.ID] = true
	}

	edges := make(map[string]bool, len(j.Edges))
	for i, e := range j.Edges {
		if edges[e.ID] {
			errs = append(errs, fmt.Errorf("edges[%d]: duplicate id %q", i, e.ID))
		}
		edges[e.ID] = true
		if !nodes[e.Source] {
			errs = append(errs, fmt.Errorf("edges[%d]: source %q references unknown node", i, e.Source))
		}
		if !nodes[e.Target] {
			errs = append(errs, fmt.Errorf("edges[%d]: target %q references unknown node", i, e.Target))
		}
	}

	goals := make(map[string]bool, len(j.Goals))
	for i, g := range j.Goals {
		if goals[g.ID] {
			errs = append(errs, fmt.Errorf("goals[%d]: duplicate id %q", i, g.ID))
		}
		goals[g.ID] = true
	}

	milestones := make(map[string]bool, len(j.Milestones))
	for i, m := range j.Milestones {
		if milestones[m.ID] {
			errs = append(errs, fmt.Errorf("milestones[%d]: duplicate id %q", i, m.ID))
		}
		milestones[m.ID] = true
	}
	for i, m := range j.Milestones {
		for _, dep := range m.Dependencies {
			if dep == m.ID {
				errs = append(errs, fmt.Errorf("milestones[%d]: depends on itself", i))
			} else if !milestones[dep] {
				errs = append(errs, fmt.Errorf("milestones[%d]: dependency %q references unknown milestone", i, dep))
			}
		}
	}

	return errs
}
