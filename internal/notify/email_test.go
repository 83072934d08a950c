package notify

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

// smtpServer is a minimal plaintext SMTP sink that records each DATA
// payload and the envelope commands it received.
type smtpServer struct {
	ln       net.Listener
	mu       sync.Mutex
	commands []string
	data     []string
}

func newSMTPServer(t *testing.T) *smtpServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &smtpServer{ln: ln}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *smtpServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	reply := func(line string) {
		_, _ = conn.Write([]byte(line + "\r\n"))
	}

	reply("220 localhost ESMTP test")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(cmd, " ", 2)[0])

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		s.mu.Unlock()

		switch verb {
		case "EHLO", "HELO":
			reply("250-localhost")
			reply("250 AUTH PLAIN LOGIN")
		case "AUTH":
			reply("235 2.7.0 Authentication successful")
		case "DATA":
			reply("354 end data with <CR><LF>.<CR><LF>")
			var body strings.Builder
			for {
				dl, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if dl == ".\r\n" {
					break
				}
				body.WriteString(dl)
			}
			s.mu.Lock()
			s.data = append(s.data, body.String())
			s.mu.Unlock()
			reply("250 OK queued")
		case "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func (s *smtpServer) received() (commands, data []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), append([]string(nil), s.data...)
}

func writeReport(t *testing.T) *Report {
	t.Helper()

	path := filepath.Join(t.TempDir(), "20260301_090507_result.csv")
	require.NoError(t, os.WriteFile(path, []byte("商品名,型番\r\n,ABC-123\r\n"), 0o600))
	return &Report{
		SearchTerm: "ABC-123",
		Path:       path,
		CreatedAt:  time.Date(2026, 3, 1, 9, 5, 7, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEmailNotifier_Message(t *testing.T) {
	t.Parallel()

	n := NewEmailNotifier(EmailConfig{
		Host: "smtp.example.com",
		From: "bot@example.com",
		To:   []string{"a@example.com", "b@example.com"},
	})

	msg, err := n.Message(writeReport(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: <bot@example.com>")
	assert.Contains(t, raw, "<a@example.com>")
	assert.Contains(t, raw, "<b@example.com>")
	assert.Contains(t, raw, "Subject: ")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/csv")
	assert.Contains(t, raw, `filename="20260301_090507_result.csv"`)
}

func TestEmailNotifier_MessageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     EmailConfig
		report  func(t *testing.T) *Report
		wantErr string
	}{
		{
			name:    "invalid sender",
			cfg:     EmailConfig{From: "not an address", To: []string{"a@example.com"}},
			report:  writeReport,
			wantErr: "setting sender",
		},
		{
			name:    "invalid recipient",
			cfg:     EmailConfig{From: "bot@example.com", To: []string{"broken@"}},
			report:  writeReport,
			wantErr: "setting recipients",
		},
		{
			name: "missing attachment",
			cfg:  EmailConfig{From: "bot@example.com", To: []string{"a@example.com"}},
			report: func(t *testing.T) *Report {
				t.Helper()
				return &Report{SearchTerm: "ABC-123", Path: filepath.Join(t.TempDir(), "missing.csv")}
			},
			wantErr: "reading attachment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := NewEmailNotifier(tt.cfg)
			_, err := n.Message(tt.report(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmailNotifier_Send(t *testing.T) {
	t.Parallel()

	srv := newSMTPServer(t)
	n := NewEmailNotifier(EmailConfig{
		Host:     "127.0.0.1",
		Port:     srv.port(),
		From:     "bot@example.com",
		To:       []string{"a@example.com"},
		StartTLS: false,
		Timeout:  5 * time.Second,
	}, WithLogger(discardLogger()))

	require.NoError(t, n.Send(context.Background(), writeReport(t)))

	commands, data := srv.received()
	require.Len(t, data, 1)
	assert.Contains(t, data[0], "text/csv")
	assert.Contains(t, data[0], "20260301_090507_result.csv")

	joined := strings.Join(commands, "\n")
	assert.Contains(t, joined, "MAIL FROM:<bot@example.com>")
	assert.Contains(t, joined, "RCPT TO:<a@example.com>")
	assert.NotContains(t, joined, "AUTH")
	assert.NotContains(t, joined, "STARTTLS")
}

func TestEmailNotifier_SendPlaintextAuth(t *testing.T) {
	t.Parallel()

	srv := newSMTPServer(t)
	n := NewEmailNotifier(EmailConfig{
		Host:     "127.0.0.1",
		Port:     srv.port(),
		User:     "mailer",
		Password: "pass",
		From:     "bot@example.com",
		To:       []string{"a@example.com"},
		StartTLS: false,
		Timeout:  5 * time.Second,
	}, WithLogger(discardLogger()))

	require.NoError(t, n.Send(context.Background(), writeReport(t)))

	commands, data := srv.received()
	require.Len(t, data, 1)
	joined := strings.Join(commands, "\n")
	assert.Contains(t, joined, "AUTH PLAIN")
	assert.NotContains(t, joined, "STARTTLS")
}

func TestEmailNotifier_AuthType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		startTLS bool
		want     mail.SMTPAuthType
	}{
		{name: "starttls uses plain", startTLS: true, want: mail.SMTPAuthPlain},
		{name: "plaintext session uses plain without encryption check", startTLS: false, want: mail.SMTPAuthPlainNoEnc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			n := NewEmailNotifier(EmailConfig{
				Host:     "smtp.example.com",
				User:     "mailer",
				Password: "pass",
				StartTLS: tt.startTLS,
			})
			assert.Equal(t, tt.want, n.authType())
		})
	}
}

func TestEmailNotifier_SendConnectionFailure(t *testing.T) {
	t.Parallel()

	// Reserve a port and close it so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	n := NewEmailNotifier(EmailConfig{
		Host:     "127.0.0.1",
		Port:     port,
		From:     "bot@example.com",
		To:       []string{"a@example.com"},
		StartTLS: true,
		Timeout:  2 * time.Second,
	}, WithLogger(discardLogger()))

	err = n.Send(context.Background(), writeReport(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSendFailed))
}

func TestNewEmailNotifier_Defaults(t *testing.T) {
	t.Parallel()

	n := NewEmailNotifier(EmailConfig{Host: "smtp.example.com"})
	assert.Equal(t, 587, n.cfg.Port)
	assert.Equal(t, 30*time.Second, n.cfg.Timeout)
}
