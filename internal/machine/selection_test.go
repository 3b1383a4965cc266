package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectionGroup describes one set of machines, timing users and LSA
// servers that correspond to each other. There are some complications:
// the empty timing user appears in multiple groups and is compatible with
// everything; NO_MACHINE is compatible with all LSA servers; and the
// generic LSA servers (gpn, next, ...) are compatible with everything.
type selectionGroup struct {
	machines []string
	user     string
	servers  []string
}

var selectionGroups = []selectionGroup{
	{
		machines: []string{"NO_MACHINE"},
		user:     "",
		servers:  []string{"next", "next_inca", "gpn", "dev", "local", "integration", "testbed"},
	},
	{
		machines: []string{"LINAC_2", "LINAC_4", "PSB"},
		user:     "PSB.USER.ALL",
		servers:  []string{"psb"},
	},
	{
		machines: []string{"LINAC_3", "LEIR"},
		user:     "LEI.USER.ALL",
		servers:  []string{"leir"},
	},
	{
		machines: []string{"PS"},
		user:     "CPS.USER.ALL",
		servers:  []string{"next_inca_ps", "ps", "testbed_ps"},
	},
	{
		machines: []string{"SPS"},
		user:     "SPS.USER.ALL",
		servers:  []string{"sps"},
	},
	{
		machines: []string{"AWAKE"},
		user:     "",
		servers:  []string{"awake"},
	},
	{
		machines: []string{"LHC"},
		user:     "LHC.USER.ALL",
		servers:  []string{"lhc", "testbed_lhc"},
	},
	{
		machines: []string{"ISOLDE"},
		user:     "",
		servers:  []string{"isolde"},
	},
	{
		machines: []string{"AD"},
		user:     "ADE.USER.ALL",
		servers:  []string{"ad"},
	},
	{
		machines: []string{"ELENA"},
		user:     "LNA.USER.ALL",
		servers:  []string{"elena"},
	},
}

func TestNewSelection_Default(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("", "", "")

	require.NoError(t, err)
	assert.Equal(t, NoMachine, selection.Machine)
	assert.Equal(t, "", selection.User)
	assert.Equal(t, "gpn", selection.LSAServer)
}

func TestNewSelection_CoherentGroups(t *testing.T) {
	t.Parallel()

	for _, group := range selectionGroups {
		for _, machineName := range group.machines {
			for _, server := range group.servers {
				selection, err := NewSelection(machineName, group.user, server)

				require.NoError(t, err, "machine=%s user=%s server=%s", machineName, group.user, server)
				assert.Equal(t, machineName, selection.Machine.String())
				assert.Equal(t, group.user, selection.User)
				assert.Equal(t, server, selection.LSAServer)
			}
		}
	}
}

func TestNewSelection_OnlyMachine(t *testing.T) {
	t.Parallel()

	for _, group := range selectionGroups {
		for _, machineName := range group.machines {
			selection, err := NewSelection(machineName, "", "")

			require.NoError(t, err, "machine=%s", machineName)
			assert.Equal(t, machineName, selection.Machine.String())
			assert.Equal(t, "", selection.User)
			assert.Contains(t, append(group.servers, "gpn"), selection.LSAServer)
		}
	}
}

func TestNewSelection_OnlyUser(t *testing.T) {
	t.Parallel()

	for _, group := range selectionGroups {
		if group.user == "" {
			// The empty user never determines a machine.
			continue
		}
		selection, err := NewSelection("", group.user, "")

		require.NoError(t, err, "user=%s", group.user)
		assert.Contains(t, group.machines, selection.Machine.String())
		assert.Equal(t, group.user, selection.User)
		assert.Contains(t, group.servers, selection.LSAServer)
	}
}

func TestNewSelection_OnlyServer(t *testing.T) {
	t.Parallel()

	for _, group := range selectionGroups {
		for _, server := range group.servers {
			selection, err := NewSelection("", "", server)

			require.NoError(t, err, "server=%s", server)
			assert.Contains(t, group.machines, selection.Machine.String())
			assert.Equal(t, "", selection.User)
			assert.Equal(t, server, selection.LSAServer)
		}
	}
}

func TestNewSelection_CaseNormalization(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("sps", "sps.user.all", "SPS")

	require.NoError(t, err)
	assert.Equal(t, SPS, selection.Machine)
	assert.Equal(t, "SPS.USER.ALL", selection.User)
	assert.Equal(t, "sps", selection.LSAServer)
}

func TestNewSelection_UserDeterminesMachineAndServer(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("", "SPS.USER.ALL", "")

	require.NoError(t, err)
	assert.Equal(t, Selection{Machine: SPS, User: "SPS.USER.ALL", LSAServer: "sps"}, selection)
}

func TestNewSelection_UnknownMachineFails(t *testing.T) {
	t.Parallel()

	_, err := NewSelection("CLIC", "", "")

	var unknownErr *UnknownMachineError
	require.ErrorAs(t, err, &unknownErr)
}

func TestNewSelection_UnknownTimingDomain(t *testing.T) {
	t.Parallel()

	_, err := NewSelection("", "SCT.USER.ALL", "")
	require.ErrorContains(t, err, "no machine found for timing domain 'SCT'")

	_, err = NewSelection("", "SCT.USER.ALL", "sps")
	require.ErrorContains(t, err, "no machine found for timing domain 'SCT'")

	_, err = NewSelection("SPS", "SCT.USER.ALL", "")
	require.ErrorContains(t, err, "selector is in domain 'SCT', but machine")
}

func TestNewSelection_UnknownServer(t *testing.T) {
	t.Parallel()

	_, err := NewSelection("", "", "ctf")
	require.ErrorContains(t, err, "no machine found for LSA server 'CTF'")

	_, err = NewSelection("SPS", "", "ctf")
	require.ErrorContains(t, err, "implies LSA database 'SPS', but 'CTF'")

	_, err = NewSelection("", "SPS.USER.ALL", "ctf")
	require.ErrorContains(t, err, "implies LSA database 'SPS', but 'CTF'")
}

func TestNewSelection_MismatchedInputsFail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                  string
		machine, user, server string
	}{
		{name: "machine vs server", machine: "SPS", user: "", server: "ps"},
		{name: "machine vs user", machine: "PS", user: "SPS.USER.ALL", server: ""},
		{name: "user vs server", machine: "", user: "LHC.USER.ALL", server: "sps"},
		{name: "no-domain machine with user", machine: "AWAKE", user: "SPS.USER.ALL", server: ""},
		{name: "no-machine with user", machine: "NO_MACHINE", user: "PSB.USER.ALL", server: ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewSelection(tc.machine, tc.user, tc.server)

			var conflictErr *ConflictingSelectionError
			require.ErrorAs(t, err, &conflictErr)
			assert.NotEmpty(t, conflictErr.First)
		})
	}
}

func TestNewSelection_GenericServerAcceptsEverything(t *testing.T) {
	t.Parallel()

	for _, group := range selectionGroups {
		for _, machineName := range group.machines {
			selection, err := NewSelection(machineName, group.user, "next")

			require.NoError(t, err, "machine=%s user=%s", machineName, group.user)
			assert.Equal(t, machineName, selection.Machine.String())
			assert.Equal(t, "next", selection.LSAServer)
		}
	}
}

func TestNewSelection_NoMachineAcceptsKnownServers(t *testing.T) {
	t.Parallel()

	selection, err := NewSelection("NO_MACHINE", "", "sps")

	require.NoError(t, err)
	assert.Equal(t, NoMachine, selection.Machine)
	assert.Equal(t, "sps", selection.LSAServer)
}

func TestNewSelection_SameResultRegardlessOfInputPair(t *testing.T) {
	t.Parallel()

	// Any two of the three inputs that agree on the implied third must
	// yield the same selection.
	want := Selection{Machine: SPS, User: "SPS.USER.ALL", LSAServer: "sps"}

	fromMachineAndUser, err := NewSelection("SPS", "SPS.USER.ALL", "")
	require.NoError(t, err)
	fromUserAndServer, err := NewSelection("", "SPS.USER.ALL", "sps")
	require.NoError(t, err)

	assert.Equal(t, want, fromMachineAndUser)
	assert.Equal(t, want, fromUserAndServer)
}
