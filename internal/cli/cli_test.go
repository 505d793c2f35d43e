package cli

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/zonelabel/internal/logger"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with the test config and returns stdout
// and the command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join("testdata", "zonelabel.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func exitCode(err error) ExitCode {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}

func TestRunText(t *testing.T) {
	g := newGoldie(t)
	for _, scene := range []string{"bays.yaml", "bays.zl"} {
		t.Run(scene, func(t *testing.T) {
			out, err := execute(t, "run", filepath.Join("testdata", scene))
			require.NoError(t, err)
			g.Assert(t, "run_bays", []byte(out))
		})
	}
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--json", "--results", filepath.Join("testdata", "bays.yaml"))
	require.NoError(t, err)

	var got struct {
		RunID     string         `json:"run_id"`
		Phase     string         `json:"phase"`
		Total     int            `json:"total"`
		Written   map[string]int `json:"written"`
		Unwritten map[string]int `json:"unwritten"`
		Skipped   int            `json:"skipped"`
		ByLabel   map[string]int `json:"by_label"`
		Results   []struct {
			ElementID string `json:"element_id"`
			Status    string `json:"status"`
			Label     string `json:"label"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, "Electrical", got.Phase)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, map[string]int{"linear-conduit": 1, "conduit-fitting": 0, "point-fixture": 0}, got.Written)
	assert.Equal(t, map[string]int{"linear-conduit": 0, "conduit-fitting": 1, "point-fixture": 0}, got.Unwritten)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, map[string]int{"Bay-1": 1}, got.ByLabel)
	require.Len(t, got.Results, 3)
	assert.Equal(t, "conduit-1", got.Results[0].ElementID)
	assert.Equal(t, "written", got.Results[0].Status)
	assert.Equal(t, "Bay-1", got.Results[0].Label)
}

func TestRunDryRunAndFlags(t *testing.T) {
	out, err := execute(t, "run", "--dry-run", "--no-prune", "--workers", "4", filepath.Join("testdata", "bays.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run: no changes committed.")
	assert.Contains(t, out, "  Conduits: 1")
}

func TestRunCancelled(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown phase", []string{"run", "--phase", "Demolition", filepath.Join("testdata", "bays.yaml")},
			"No elements found in phase 'Demolition'."},
		{"no scope boxes", []string{"run", filepath.Join("testdata", "noboxes.yaml")},
			"No Scope Boxes found. Nothing to map SKU from."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCancelled, exitCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Empty(t, out)
		})
	}
}

func TestRunAbortsOnDegenerateZone(t *testing.T) {
	_, err := execute(t, "run", filepath.Join("testdata", "problems.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitInvalidScene, exitCode(err))
	assert.Contains(t, err.Error(), "nothing written")
}

func TestRunLoadErrors(t *testing.T) {
	_, err := execute(t, "run", filepath.Join("testdata", "missing.yaml"))
	assert.Equal(t, ExitSceneLoad, exitCode(err))

	_, err = execute(t, "run", filepath.Join("testdata", "zonelabel.txt"))
	assert.Equal(t, ExitSceneLoad, exitCode(err))
}

func TestBadConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", filepath.Join("testdata", "missing-config.yaml"), "run", "x.yaml"})
	err := cmd.Execute()
	assert.Equal(t, ExitConfig, exitCode(err))
}

func TestCheckText(t *testing.T) {
	out, err := execute(t, "check", filepath.Join("testdata", "problems.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitInvalidScene, exitCode(err))
	newGoldie(t).Assert(t, "check_problems", []byte(out))
}

func TestCheckCleanScene(t *testing.T) {
	out, err := execute(t, "check", "--json", filepath.Join("testdata", "bays.zl"))
	require.NoError(t, err)

	var got struct {
		OK       bool `json:"ok"`
		Findings []struct {
			Severity string `json:"severity"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.OK)
	assert.Empty(t, got.Findings)
}

func TestLocate(t *testing.T) {
	tests := []struct {
		point []string
		want  string
	}{
		{[]string{"5", "5", "5"}, "Bay-1"},
		{[]string{"10", "10", "10"}, "Bay-1"},
		{[]string{"20", "5", "5"}, "Bay-2"},
		{[]string{"-1", "0", "0"}, "-"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.point, ","), func(t *testing.T) {
			args := append([]string{"locate", filepath.Join("testdata", "bays.yaml")}, tt.point...)
			out, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestLocateNegativeCoordinatesWithFlags(t *testing.T) {
	out, err := execute(t, "locate", "--json", filepath.Join("testdata", "bays.yaml"), "-1", "-2", "-3")
	require.NoError(t, err)
	var got struct {
		Found bool `json:"found"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Found)
}

func TestLogForTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	a := &app{log: logger.New(logger.Options{Level: "debug", Format: "json", Writer: &buf})}
	l := a.logFor("classify")
	l.Debug().Msg("planned")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "classify", rec["component"])
	assert.Equal(t, "planned", rec["message"])
}

func TestLocateJSON(t *testing.T) {
	out, err := execute(t, "--json", "locate", filepath.Join("testdata", "bays.yaml"), "50", "0", "0")
	require.NoError(t, err)
	var got struct {
		Found bool   `json:"found"`
		Zone  int    `json:"zone"`
		Label string `json:"label"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Found)
	assert.Equal(t, -1, got.Zone)
	assert.Empty(t, got.Label)
}

func TestLocateRejectsBadCoordinate(t *testing.T) {
	_, err := execute(t, "locate", filepath.Join("testdata", "bays.yaml"), "a", "0", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coordinate")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, false, WrapCLIError(ExitSceneLoad, "load scene", errors.New("boom")))
	assert.Equal(t, "Error: load scene: boom\n", buf.String())

	buf.Reset()
	printError(&buf, false, NewCLIError(ExitCancelled, "No elements found in phase 'X'."))
	assert.Equal(t, "Cancelled: No elements found in phase 'X'.\n", buf.String())

	buf.Reset()
	printError(&buf, true, WrapCLIError(ExitConfig, "load config", errors.New("bad")))
	assert.JSONEq(t, `{"error": {"message": "load config", "detail": "bad", "code": 5}}`, buf.String())
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "Scope Box", singular("Scope Boxes"))
	assert.Equal(t, "Area", singular("Areas"))
	assert.Equal(t, "Zone", singular("Zone"))
}

func TestExportSTL(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bays.stl")
	out, err := execute(t, "export", "--cells", "16", "-o", dst, filepath.Join("testdata", "bays.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 meshes")
	assert.Contains(t, out, dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Greater(t, len(data), 84)
	assert.True(t, strings.HasPrefix(string(data), "zonelabel bays.yaml"))
	n := binary.LittleEndian.Uint32(data[80:84])
	assert.NotZero(t, n)
	assert.Len(t, data, 84+int(n)*50)
}

func TestExportJSONWithElements(t *testing.T) {
	out, err := execute(t, "export", "--cells", "12", "--format", "json", "--elements", filepath.Join("testdata", "bays.zl"))
	require.NoError(t, err)

	var got struct {
		Scene  string `json:"scene"`
		Meshes []struct {
			Label    string    `json:"label"`
			Kind     string    `json:"kind"`
			Vertices []float32 `json:"vertices"`
		} `json:"meshes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "bays.zl", got.Scene)

	var kinds []string
	for _, m := range got.Meshes {
		kinds = append(kinds, m.Kind+":"+m.Label)
		assert.NotEmpty(t, m.Vertices, m.Label)
	}
	assert.Equal(t, []string{"zone:Bay-1", "zone:Bay-2"}, kinds[:2])
	assert.Len(t, kinds, 2+3)
}

func TestExportSummaryJSON(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bays.json")
	out, err := execute(t, "--json", "export", "--cells", "12", "-o", dst, filepath.Join("testdata", "bays.yaml"))
	require.NoError(t, err)

	var got struct {
		Output string `json:"output"`
		Format string `json:"format"`
		Meshes int    `json:"meshes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, dst, got.Output)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, 2, got.Meshes)
	assert.FileExists(t, dst)
}

func TestExportErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want ExitCode
	}{
		{"bad format", []string{"export", "--format", "obj", filepath.Join("testdata", "bays.yaml")}, ExitGeneralError},
		{"bad cells", []string{"export", "--cells", "0", filepath.Join("testdata", "bays.yaml")}, ExitGeneralError},
		{"degenerate zone", []string{"export", filepath.Join("testdata", "problems.yaml")}, ExitInvalidScene},
		{"missing scene", []string{"export", filepath.Join("testdata", "missing.yaml")}, ExitSceneLoad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}
