package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "keylink", cmd.Use)
	assert.Contains(t, cmd.Long, "linked frame sets")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"import", "link", "flip", "unlink", "info", "save", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestImportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	importCmd, _, err := cmd.Find([]string{"import"})
	require.NoError(t, err)

	dbFlag := importCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestTableCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"link", "flip", "unlink", "info"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			dbFlag := subCmd.Flags().Lookup("db")
			require.NotNil(t, dbFlag)

			framesFlag := subCmd.Flags().Lookup("frames")
			require.NotNil(t, framesFlag)
		})
	}
}

func TestSaveCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	saveCmd, _, err := cmd.Find([]string{"save"})
	require.NoError(t, err)

	dbFlag := saveCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestTableCommandHelp(t *testing.T) {
	cmd := NewRootCommand()
	linkCmd, _, err := cmd.Find([]string{"link"})
	require.NoError(t, err)

	// The command table supplies the menu texts
	assert.Equal(t, "Link Frames", linkCmd.Short)
	assert.Contains(t, linkCmd.Long, "they all change")
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "info", "--db", "x.anim"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
