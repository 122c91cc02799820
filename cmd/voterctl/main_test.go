package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterroll/pkg/engine"
	"voterroll/pkg/report"
)

const registryCSV = "الإسم الشخصي للناخب,الإسم العائلي للناخب,الجنس,العمالة أو الإقليم,الجماعة,الدائرة الإنتخابية,مكتب التصويت,بطاقة التعريف,الرقم الترتيبي,رقم التسجيل\n" +
	"أحمد,العلوي,ذكر,R1,C1,2,7,A1,10,100\n" +
	"فاطمة,الإدريسي,أنثى,R1,C1,2,7,A2,2,101\n" +
	"يوسف,البقالي,ذكر,R1,C1,10,8,B1,1,200\n"

const cancellationCSV = "بطاقة التعريف,الرقم الترتيبي,مكتب التصويت,رقم التسجيل\nA1,10,7,100\n"

func run(t *testing.T, dataDir string, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store", "file", "--data-dir", dataDir}, args...))
	require.NoError(t, cmd.ExecuteContext(context.Background()), out.String())
	return out.Bytes()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCommandsRoundTrip(t *testing.T) {
	t.Setenv("VOTERROLL_STORE", "")
	t.Setenv("VOTERROLL_SQLITE_PATH", "")
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")

	var load engine.LoadResult
	require.NoError(t, json.Unmarshal(run(t, dataDir, "import", writeFile(t, dir, "registry.csv", registryCSV)), &load))
	assert.Equal(t, 3, load.Voters)
	assert.Equal(t, 2, load.Stats.Stations)

	var ingest engine.IngestResult
	require.NoError(t, json.Unmarshal(run(t, dataDir, "cancel", writeFile(t, dir, "cancel.csv", cancellationCSV)), &ingest))
	assert.Equal(t, 1, ingest.Added)

	var preview engine.Reconciliation
	require.NoError(t, json.Unmarshal(run(t, dataDir, "reconcile"), &preview))
	assert.Equal(t, 1, preview.Stats.Matched)

	var confirm engine.ConfirmResult
	require.NoError(t, json.Unmarshal(run(t, dataDir, "confirm"), &confirm))
	assert.Equal(t, 1, confirm.Removed)

	var ledger report.LedgerReport
	require.NoError(t, json.Unmarshal(run(t, dataDir, "ledger"), &ledger))
	assert.Equal(t, 1, ledger.TotalConfirmed)
	require.Len(t, ledger.Entries, 1)
	assert.Equal(t, report.StatusConfirmed, ledger.Entries[0].Status)

	var rollup []report.DistrictListing
	require.NoError(t, json.Unmarshal(run(t, dataDir, "rollup", "--commune", "C1"), &rollup))
	require.Len(t, rollup, 2)
	assert.Equal(t, "2", rollup[0].District)
	assert.Equal(t, "10", rollup[1].District)

	var restore engine.RestoreResult
	require.NoError(t, json.Unmarshal(run(t, dataDir, "restore", "--cin", "a1", "--serial", "10", "--station", "مكتب 7", "--reg", "100"), &restore))
	assert.True(t, restore.Restored)

	var voters []json.RawMessage
	require.NoError(t, json.Unmarshal(run(t, dataDir, "list", "--station", "7"), &voters))
	assert.Len(t, voters, 2)

	run(t, dataDir, "clear")
	require.NoError(t, json.Unmarshal(run(t, dataDir, "list"), &voters))
	assert.Empty(t, voters)
}

func TestRollupWithoutVotersFails(t *testing.T) {
	t.Setenv("VOTERROLL_STORE", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--store", "memory", "rollup", "--commune", "nowhere"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, report.ErrNoVoters)
}
