package benchmark

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapiscan/okapi"
	"github.com/okapiscan/okapi/internal/testutil"
)

func TestSuiteRun(t *testing.T) {
	qr, err := testutil.GenerateQR("suite payload", 200)
	require.NoError(t, err)

	suite := NewSuite()
	suite.Add("qr", qr, okapi.NewScannerBuilder().WithConfig(okapi.QRCode, okapi.CfgEnable, 1))

	results, err := suite.Run(2)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Err)
	assert.Equal(t, "qr", r.Name)
	assert.Equal(t, 2, r.Iterations)
	assert.Equal(t, 1, r.Symbols)
	assert.Positive(t, r.Total)
	assert.Positive(t, r.DecodesPerSec)
}

func TestSuiteRunInvalidIterations(t *testing.T) {
	_, err := NewSuite().Run(0)
	require.Error(t, err)
}

func TestSuiteRunRecordsCaseErrors(t *testing.T) {
	qr, err := testutil.GenerateQR("still fine", 200)
	require.NoError(t, err)

	bad := okapi.NewScannerBuilder().WithConfig(okapi.QRCode, okapi.Config(9999), 1)
	suite := NewSuite()
	suite.Add("broken", qr, bad)
	suite.Add("working", qr, okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1))

	results, err := suite.Run(1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, 1, results[1].Symbols)
}

func TestAddDefaultCases(t *testing.T) {
	suite := NewSuite()
	require.NoError(t, suite.AddDefaultCases())
	assert.Len(t, suite.cases, 6)
}

func TestResultString(t *testing.T) {
	r := Result{Name: "qr", Iterations: 3, PerDecode: time.Millisecond, DecodesPerSec: 1000, Symbols: 1}
	s := r.String()
	assert.Contains(t, s, "qr: 3 iterations")
	assert.Contains(t, s, "decodes/sec")

	r.Err = errors.New("boom")
	assert.Contains(t, r.String(), "ERROR")
}

func TestPrintResultsAndCSV(t *testing.T) {
	qr, err := testutil.GenerateQR("csv payload", 200)
	require.NoError(t, err)

	suite := NewSuite()
	suite.Add("qr", qr, okapi.NewScannerBuilder().WithConfig(okapi.None, okapi.CfgEnable, 1))
	results, err := suite.Run(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintResults(&buf, results)
	assert.Contains(t, buf.String(), "qr:")

	buf.Reset()
	require.NoError(t, WriteCSV(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "case,iterations,avg_ms,decodes_per_sec,symbols,mem_diff_kb,error", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "qr,1,"))
}

func TestReadMemoryStats(t *testing.T) {
	stats := ReadMemoryStats()
	assert.Positive(t, stats.Alloc)
	assert.Positive(t, stats.Sys)
	assert.Contains(t, stats.String(), "Alloc:")
}
