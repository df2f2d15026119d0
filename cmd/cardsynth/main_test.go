package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alovak/cardsynth/internal/cardgen"
	"github.com/alovak/cardsynth/internal/fixture"
	"github.com/alovak/cardsynth/testcards/models"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	out, err := run(t, "", "generate", "--brands", "visa,mastercard", "--count", "4", "--seed", "99")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for i, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 3)
		require.True(t, cardgen.IsValid(fields[0]), line)
		require.Equal(t, []string{"visa", "mastercard"}[i%2], fields[2])
	}

	again, err := run(t, "", "generate", "--brands", "visa,mastercard", "--count", "4", "--seed", "99")
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestGenerateCmd_JSONMasked(t *testing.T) {
	out, err := run(t, "", "generate", "--prefix", "6011", "--length", "19", "--count", "2", "--json", "--mask")
	require.NoError(t, err)

	var batch models.Batch
	require.NoError(t, json.Unmarshal([]byte(out), &batch))
	require.Len(t, batch.Cards, 2)
	for _, c := range batch.Cards {
		require.Empty(t, c.Number)
		require.True(t, strings.HasPrefix(c.Masked, "6011"))
		require.Len(t, c.Masked, 19)
	}
}

func TestGenerateCmd_Errors(t *testing.T) {
	_, err := run(t, "", "generate", "--brand", "amex")
	require.Error(t, err)

	_, err = run(t, "", "generate", "--prefix", "4", "--length", "2")
	require.ErrorIs(t, err, cardgen.ErrInvalidArgument)
}

func TestValidateCmd(t *testing.T) {
	out, err := run(t, "", "validate", "4532-0151-1283-0366")
	require.NoError(t, err)
	require.Contains(t, out, "453201******0366  valid  visa")

	out, err = run(t, "4532015112830366\n\n4532015112830367\n", "validate")
	require.Error(t, err)
	require.Contains(t, out, "453201******0366  valid")
	require.Contains(t, out, "453201******0367  invalid")

	_, err = run(t, "", "validate")
	require.Error(t, err)

	_, err = run(t, "", "validate", "--luhn-only", "4532/0151/1283/0366")
	require.NoError(t, err)
}

func TestFixtureCmd(t *testing.T) {
	out, err := run(t, "", "fixture", "--brand", "visa", "--amount", "500", "--stan", "12", "--seed", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	raw, err := hex.DecodeString(lines[1])
	require.NoError(t, err)
	auth, err := fixture.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, int64(500), auth.Amount)
	require.Equal(t, 12, auth.STAN)
	require.True(t, strings.HasPrefix(auth.PAN, "4"))
	require.Contains(t, lines[0], auth.PAN)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardsynth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_brand: mastercard\nmax_batch: 2\n"), 0o600))

	out, err := run(t, "", "--config", path, "generate", "--count", "2")
	require.NoError(t, err)
	require.Contains(t, out, "mastercard")

	_, err = run(t, "", "--config", path, "generate", "--count", "3")
	require.Error(t, err)

	_, err = run(t, "", "--config", filepath.Join(dir, "missing.yaml"), "generate")
	require.Error(t, err)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("CARDSYNTH_DEFAULT_BRAND", "mastercard")
	out, err := run(t, "", "generate")
	require.NoError(t, err)
	require.Contains(t, out, "mastercard")
}
