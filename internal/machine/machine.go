// Package machine resolves machine, timing-user and LSA-server selections
// into a single consistent configuration.
//
// The CERN accelerator complex is described by three partially redundant
// naming schemes: the machine itself (SPS, LEIR, ...), the timing domain of
// its users (SPS, LEI, ...) and the LSA database that holds its settings
// (sps, leir, ...). Operators may pass any subset of the three on the
// command line; this package canonicalizes them, derives the missing pieces
// and rejects combinations that imply two different machines.
package machine

import (
	"fmt"
	"strings"
)

// Machine identifies one machine of the accelerator complex.
type Machine int

const (
	NoMachine Machine = iota
	Linac2
	Linac3
	Linac4
	Leir
	PS
	PSB
	SPS
	Awake
	LHC
	Isolde
	AD
	Elena
)

// machineNames maps each machine to its canonical upper-case name.
var machineNames = map[Machine]string{
	NoMachine: "NO_MACHINE",
	Linac2:    "LINAC_2",
	Linac3:    "LINAC_3",
	Linac4:    "LINAC_4",
	Leir:      "LEIR",
	PS:        "PS",
	PSB:       "PSB",
	SPS:       "SPS",
	Awake:     "AWAKE",
	LHC:       "LHC",
	Isolde:    "ISOLDE",
	AD:        "AD",
	Elena:     "ELENA",
}

// String returns the canonical upper-case name of the machine.
func (m Machine) String() string {
	if name, ok := machineNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Machine(%d)", int(m))
}

// All returns every known machine in declaration order.
func All() []Machine {
	return []Machine{
		NoMachine, Linac2, Linac3, Linac4, Leir, PS, PSB, SPS,
		Awake, LHC, Isolde, AD, Elena,
	}
}

// UnknownMachineError is returned when a machine name does not match any
// known machine identifier.
type UnknownMachineError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownMachineError) Error() string {
	return fmt.Sprintf("unknown machine: '%s'", e.Name)
}

// Parse resolves a case-insensitive machine name to its Machine value.
func Parse(name string) (Machine, error) {
	canonical := strings.ToUpper(name)
	for m, n := range machineNames {
		if n == canonical {
			return m, nil
		}
	}
	return NoMachine, &UnknownMachineError{Name: name}
}

// Domain is a timing domain, the first dot-separated field of a timing
// user such as "SPS.USER.ALL".
type Domain string

const (
	DomainPSB Domain = "PSB"
	DomainLEI Domain = "LEI"
	DomainCPS Domain = "CPS"
	DomainSPS Domain = "SPS"
	DomainLHC Domain = "LHC"
	DomainLNA Domain = "LNA"
	DomainADE Domain = "ADE"
)

// machineDomains maps each machine to its timing domain. The mapping is
// surjective: the linacs share a domain with their downstream ring.
// NO_MACHINE, AWAKE and ISOLDE have no timing domain at all.
var machineDomains = map[Machine]Domain{
	Linac2: DomainPSB,
	Linac3: DomainLEI,
	Linac4: DomainPSB,
	Leir:   DomainLEI,
	PS:     DomainCPS,
	PSB:    DomainPSB,
	SPS:    DomainSPS,
	LHC:    DomainLHC,
	AD:     DomainADE,
	Elena:  DomainLNA,
}

// domainMachines maps each timing domain back to its canonical machine.
// The mapping is injective: not every machine is returned.
var domainMachines = map[Domain]Machine{
	DomainLHC: LHC,
	DomainSPS: SPS,
	DomainCPS: PS,
	DomainPSB: PSB,
	DomainLNA: Elena,
	DomainLEI: Leir,
	DomainADE: AD,
}

// UserDomain extracts the timing domain from a timing user string. The
// empty user has no domain.
func UserDomain(user string) Domain {
	domain, _, _ := strings.Cut(user, ".")
	return Domain(domain)
}

// defaultServers maps each machine to the LSA server that holds its
// settings.
var defaultServers = map[Machine]string{
	NoMachine: "gpn",
	Linac2:    "psb",
	Linac3:    "leir",
	Linac4:    "psb",
	Leir:      "leir",
	PS:        "ps",
	PSB:       "psb",
	SPS:       "sps",
	Awake:     "awake",
	LHC:       "lhc",
	Isolde:    "isolde",
	AD:        "ad",
	Elena:     "elena",
}

// genericServers are LSA servers that are not tied to any one machine and
// may be combined with every selection.
var genericServers = map[string]bool{
	"gpn":         true,
	"next":        true,
	"next_inca":   true,
	"dev":         true,
	"local":       true,
	"integration": true,
	"testbed":     true,
}

// serverMachines maps each machine-specific LSA server, including its
// next/testbed variants, to its canonical machine.
var serverMachines = map[string]Machine{
	"psb":          PSB,
	"leir":         Leir,
	"ps":           PS,
	"next_inca_ps": PS,
	"testbed_ps":   PS,
	"sps":          SPS,
	"awake":        Awake,
	"lhc":          LHC,
	"testbed_lhc":  LHC,
	"isolde":       Isolde,
	"ad":           AD,
	"elena":        Elena,
}

// DefaultServer returns the LSA server associated with a machine.
func DefaultServer(m Machine) string {
	return defaultServers[m]
}

// IsGenericServer reports whether an LSA server is machine-independent.
func IsGenericServer(server string) bool {
	return genericServers[strings.ToLower(server)]
}
