package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends a raw ESC/POS stream to a receipt printer
type Printer interface {
	Print(ctx context.Context, data []byte) error
	Ready(ctx context.Context) bool
	Kind() string
}

const (
	KindUSB     = "usb"
	KindNetwork = "network"
	KindNone    = "none"
)

// New builds the printer named by kind. target is a device path for usb and host:port for network.
func New(kind, target string) (Printer, error) {
	switch kind {
	case KindUSB:
		if target == "" {
			return nil, fmt.Errorf("printer: usb printer needs a device path")
		}
		return &devicePrinter{path: target}, nil
	case KindNetwork:
		if target == "" {
			return nil, fmt.Errorf("printer: network printer needs an address")
		}
		return &tcpPrinter{address: target, dialTimeout: 5 * time.Second, writeTimeout: 10 * time.Second}, nil
	case KindNone, "":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q", kind)
	}
}

// devicePrinter writes to a character device such as /dev/usb/lp0, opened per job
type devicePrinter struct {
	path string
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *devicePrinter) Kind() string { return KindUSB }

// tcpPrinter speaks raw port 9100
type tcpPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
}

func (p *tcpPrinter) dial(ctx context.Context, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *tcpPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(p.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *tcpPrinter) Ready(ctx context.Context) bool {
	conn, err := p.dial(ctx, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *tcpPrinter) Kind() string { return KindNetwork }

// Discard accepts every job and prints nothing
type Discard struct{}

func (Discard) Print(context.Context, []byte) error { return nil }
func (Discard) Ready(context.Context) bool          { return false }
func (Discard) Kind() string                        { return KindNone }
