package machine

import (
	"fmt"
	"strings"
)

// Selection is a fully reconciled machine/user/server configuration. It is
// constructed once at startup and never modified afterwards.
type Selection struct {
	// Machine is the selected machine, NoMachine if nothing was selected.
	Machine Machine
	// User is the selected timing user, "" if none was selected.
	User string
	// LSAServer is the LSA server to connect to. It is always set; the
	// machine-independent default is "gpn".
	LSAServer string
}

// ConflictingSelectionError reports machine/user/server inputs that imply
// two different machines, or a value that is absent from the static
// machine tables.
type ConflictingSelectionError struct {
	// First and Second name the selection sources that disagree. Second is
	// empty when a single input already fails on its own.
	First  string
	Second string
	// Detail is the full human-readable explanation.
	Detail string
}

// Error implements the error interface.
func (e *ConflictingSelectionError) Error() string {
	return e.Detail
}

// NewSelection reconciles the three optional command-line inputs into a
// Selection. Each input may be empty; case is normalized before matching
// (machine and user upper-case, server lower-case).
//
// A supplied timing user determines the machine through its timing domain,
// and a supplied machine-specific LSA server determines the machine
// through the server tables. Whenever a field is both supplied and
// derived, the two values must agree.
func NewSelection(machineName, user, lsaServer string) (Selection, error) {
	user = strings.ToUpper(user)
	lsaServer = strings.ToLower(lsaServer)

	m := NoMachine
	machineGiven := machineName != ""
	if machineGiven {
		var err error
		m, err = Parse(machineName)
		if err != nil {
			return Selection{}, err
		}
	}
	// Whether the machine is pinned down, either explicitly or through the
	// timing user. A machine-specific server may then no longer change it.
	determined := machineGiven

	if user != "" {
		domain := UserDomain(user)
		if machineGiven {
			md, hasDomain := machineDomains[m]
			if !hasDomain {
				return Selection{}, &ConflictingSelectionError{
					First:  "--user " + user,
					Second: "--machine " + m.String(),
					Detail: fmt.Sprintf(
						"selector is in domain '%s', but machine %s has no timing domain",
						domain, m,
					),
				}
			}
			if md != domain {
				return Selection{}, &ConflictingSelectionError{
					First:  "--user " + user,
					Second: "--machine " + m.String(),
					Detail: fmt.Sprintf(
						"selector is in domain '%s', but machine %s expects domain '%s'",
						domain, m, md,
					),
				}
			}
		} else {
			dm, ok := domainMachines[domain]
			if !ok {
				return Selection{}, &ConflictingSelectionError{
					First: "--user " + user,
					Detail: fmt.Sprintf(
						"no machine found for timing domain '%s'", domain,
					),
				}
			}
			m = dm
			determined = true
		}
	}

	switch {
	case lsaServer == "":
		lsaServer = DefaultServer(m)
	case IsGenericServer(lsaServer):
		// Machine-independent servers go with everything.
	default:
		sm, known := serverMachines[lsaServer]
		switch {
		case !known && determined && m != NoMachine:
			return Selection{}, &ConflictingSelectionError{
				First:  "--lsa-server " + lsaServer,
				Second: "machine " + m.String(),
				Detail: fmt.Sprintf(
					"machine %s implies LSA database '%s', but '%s' was selected",
					m, strings.ToUpper(DefaultServer(m)), strings.ToUpper(lsaServer),
				),
			}
		case !known:
			return Selection{}, &ConflictingSelectionError{
				First: "--lsa-server " + lsaServer,
				Detail: fmt.Sprintf(
					"no machine found for LSA server '%s'", strings.ToUpper(lsaServer),
				),
			}
		case determined && m == NoMachine:
			// An explicit NO_MACHINE goes with every known server.
		case determined:
			// The server must belong to the same settings database as the
			// machine; the linacs share their ring's database.
			if DefaultServer(m) != DefaultServer(sm) {
				return Selection{}, &ConflictingSelectionError{
					First:  "--lsa-server " + lsaServer,
					Second: "machine " + m.String(),
					Detail: fmt.Sprintf(
						"machine %s implies LSA database '%s', but '%s' was selected",
						m, strings.ToUpper(DefaultServer(m)), strings.ToUpper(lsaServer),
					),
				}
			}
		default:
			m = sm
		}
	}

	return Selection{Machine: m, User: user, LSAServer: lsaServer}, nil
}
