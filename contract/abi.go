// Package contract holds the read-only view of a deployed contract that the
// generation pipeline is seeded with: its ABI and address.
package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Param is one input or output of an ABI entry.
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType,omitempty"`
	Indexed      bool    `json:"indexed,omitempty"`
	Components   []Param `json:"components,omitempty"`
}

// Entry is a function, event, error or constructor descriptor. Entries read
// by ParseABI keep their source bytes and marshal back to them unchanged.
type Entry struct {
	Type            string  `json:"type"`
	Name            string  `json:"name,omitempty"`
	Inputs          []Param `json:"inputs,omitempty"`
	Outputs         []Param `json:"outputs,omitempty"`
	StateMutability string  `json:"stateMutability,omitempty"`
	Anonymous       bool    `json:"anonymous,omitempty"`

	// pre-0.5 compilers
	Constant bool `json:"constant,omitempty"`
	Payable  bool `json:"payable,omitempty"`

	raw json.RawMessage
}

type plainEntry Entry

func (e *Entry) UnmarshalJSON(data []byte) error {
	var p plainEntry
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(plainEntry(e))
}

// ABI is the ordered list of entries as emitted by the compiler.
type ABI []Entry

// artifact is the compiler collaborator's output shape.
type artifact struct {
	ABI          ABI    `json:"abi"`
	Bytecode     string `json:"bytecode,omitempty"`
	ContractName string `json:"contractName,omitempty"`
}

// ParseABI accepts either a bare ABI array or a compiler artifact object
// carrying an "abi" field.
func ParseABI(data []byte) (ABI, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty ABI document")
	}

	switch trimmed[0] {
	case '[':
		var abi ABI
		if err := json.Unmarshal(trimmed, &abi); err != nil {
			return nil, fmt.Errorf("error parsing ABI: %w", err)
		}
		return abi, nil
	case '{':
		var a artifact
		if err := json.Unmarshal(trimmed, &a); err != nil {
			return nil, fmt.Errorf("error parsing compiler artifact: %w", err)
		}
		if a.ABI == nil {
			return nil, fmt.Errorf("compiler artifact has no abi field")
		}
		return a.ABI, nil
	default:
		return nil, fmt.Errorf("ABI must be a JSON array or an artifact object")
	}
}

// IsFunction reports whether e is a function. Entries with no type are
// functions in Solidity ABI output.
func (e Entry) IsFunction() bool {
	return e.Type == "function" || e.Type == ""
}

func (e Entry) IsEvent() bool {
	return e.Type == "event"
}

// IsView reports whether calling e never changes state.
func (e Entry) IsView() bool {
	if e.StateMutability != "" {
		return e.StateMutability == "view" || e.StateMutability == "pure"
	}
	return e.Constant
}

// Signature renders e as name(type1,type2).
func (e Entry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, in := range e.Inputs {
		types[i] = in.canonicalType()
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

func (p Param) canonicalType() string {
	if !strings.HasPrefix(p.Type, "tuple") || len(p.Components) == 0 {
		return p.Type
	}
	inner := make([]string, len(p.Components))
	for i, c := range p.Components {
		inner[i] = c.canonicalType()
	}
	return "(" + strings.Join(inner, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

func (a ABI) Functions() []Entry {
	var out []Entry
	for _, e := range a {
		if e.IsFunction() {
			out = append(out, e)
		}
	}
	return out
}

func (a ABI) Events() []Entry {
	var out []Entry
	for _, e := range a {
		if e.IsEvent() {
			out = append(out, e)
		}
	}
	return out
}

func (a ABI) FunctionNames() []string {
	return names(a.Functions())
}

func (a ABI) EventNames() []string {
	return names(a.Events())
}

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

// JSON renders the ABI compactly, as embedded in generated sources. Parsed
// entries keep every field of the source document.
func (a ABI) JSON() string {
	if a == nil {
		return "[]"
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "[]"
	}
	return string(b)
}

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressRe.MatchString(s)
}
