package cli

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaxscheduler/internal/config"
	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/logging"
	"github.com/dmitrijs2005/vaxscheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	st, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "scheduler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	logger, err := logging.NewJSONLogger(logs, "debug")
	require.NoError(t, err)

	return &testApp{App: newApp(st, dbx.TxPolicy{Retries: 3}, logger, out), out: out, logs: logs}
}

// run feeds lines to the REPL and returns what it printed, one entry per
// output line.
func (a *testApp) run(t *testing.T, lines ...string) []string {
	t.Helper()
	a.out.Reset()

	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, a.runREPL(context.Background(), sc, false))

	text := strings.TrimSuffix(a.out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestRun_BannerAndQuit(t *testing.T) {
	a := newTestApp(t)

	err := a.Run(context.Background(), strings.NewReader("quit\nlogout\n"))
	require.NoError(t, err)

	out := a.out.String()
	assert.True(t, strings.HasPrefix(out, "\nWelcome to the COVID-19 Vaccine Reservation Scheduling Application!\n"))
	assert.Contains(t, out, "> reserve <date> <vaccine>\n")
	assert.True(t, strings.HasSuffix(out, "\nBye!\n"), "nothing runs after quit")
	assert.NotContains(t, out, "> \n", "no prompt for non-interactive input")
}

func TestRun_PromptWhenInteractive(t *testing.T) {
	orig := isTerminal
	isTerminal = func(io.Reader) bool { return true }
	t.Cleanup(func() { isTerminal = orig })

	a := newTestApp(t)
	require.NoError(t, a.Run(context.Background(), strings.NewReader("QUIT\n")))
	assert.True(t, strings.HasSuffix(a.out.String(), "> Bye!\n"))
}

func TestRun_EOFEndsLoop(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, []string{"Invalid operation name!"}, a.run(t, "hello"))
}

func TestRunREPL_CancelledContextDispatchesNothing(t *testing.T) {
	a := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := bufio.NewScanner(strings.NewReader("create_patient p1 pw\ncreate_patient p2 pw\n"))
	require.NoError(t, a.runREPL(ctx, sc, false))

	assert.Empty(t, a.out.String())
	assert.NotContains(t, a.logs.String(), "user created")
	assert.Contains(t, a.logs.String(), `"msg":"interrupted"`)

	_, err := a.users.Authenticate(context.Background(), "patient", "p1", "pw")
	require.Error(t, err, "no command ran")
}

// syncBuffer lets the test read output while the REPL goroutine writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunREPL_CancelWhileWaitingForInput(t *testing.T) {
	a := newTestApp(t)
	out := &syncBuffer{}
	a.App.out = out

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.runREPL(ctx, bufio.NewScanner(pr), false) }()

	_, err := io.WriteString(pw, "create_patient p1 pw\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Created user p1")
	}, 5*time.Second, 10*time.Millisecond)

	// the reader is now blocked on the pipe
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not return after cancel")
	}
	assert.Equal(t, "Created user p1\n", out.String())
}

func TestTxPolicy(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()

	p, err := txPolicy(c, dbx.DialectPostgres)
	require.NoError(t, err)
	require.NotNil(t, p.Options)
	assert.Equal(t, sql.LevelSerializable, p.Options.Isolation)
	assert.Equal(t, uint64(5), p.Retries)
	assert.Equal(t, 5*time.Second, p.Timeout)

	p, err = txPolicy(c, dbx.DialectSQLite)
	require.NoError(t, err)
	assert.Nil(t, p.Options)

	c.TxIsolation = "chaos"
	_, err = txPolicy(c, dbx.DialectPostgres)
	require.Error(t, err)

	c.TxIsolation = "read_committed"
	c.TxRetries = -1
	_, err = txPolicy(c, dbx.DialectPostgres)
	require.Error(t, err)
}

func TestNewApp(t *testing.T) {
	logger, err := logging.NewJSONLogger(&bytes.Buffer{}, "info")
	require.NoError(t, err)

	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = filepath.Join(t.TempDir(), "app.db")

	out := &bytes.Buffer{}
	a, err := NewApp(context.Background(), c, logger, out)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background(), strings.NewReader("create_patient p1 pw\nquit\n")))
	assert.Contains(t, out.String(), "Created user p1\nBye!\n")

	c.DatabaseDriver = "oracle"
	_, err = NewApp(context.Background(), c, logger, out)
	require.Error(t, err)
}
