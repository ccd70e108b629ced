// Package authtest provides a fake TSM controller login socket for tests.
package authtest

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
)

// Responder writes the reply to one login() call
type Responder func(ctx context.Context, p thrift.TProtocol, seq int32) error

// Serve listens on a fresh unix socket and answers every login() call with
// respond until the test ends. It returns the socket path.
func Serve(t testing.TB, respond Responder) string {
	t.Helper()

	// unix socket paths are limited to ~100 bytes, t.TempDir can exceed that
	dir, err := os.MkdirTemp("", "tabmon")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	path := filepath.Join(dir, "login.sock")

	ln, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to listen on %s: %v", path, err)
	}
	t.Cleanup(func() {
		ln.Close()
		os.RemoveAll(dir)
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			handle(conn, respond)
		}
	}()

	return path
}

func handle(conn net.Conn, respond Responder) {
	defer conn.Close()

	ctx := context.Background()
	conf := &thrift.TConfiguration{
		TBinaryStrictRead:  thrift.BoolPtr(true),
		TBinaryStrictWrite: thrift.BoolPtr(true),
	}
	p := thrift.NewTBinaryProtocolConf(thrift.NewTSocketFromConnConf(conn, conf), conf)

	name, typ, seq, err := p.ReadMessageBegin(ctx)
	if err != nil || name != "login" || typ != thrift.CALL {
		return
	}
	if err := p.Skip(ctx, thrift.STRUCT); err != nil {
		return
	}
	if err := p.ReadMessageEnd(ctx); err != nil {
		return
	}
	if err := respond(ctx, p, seq); err != nil {
		return
	}
	_ = p.Flush(ctx)
}

// Reply answers with a login result; nil fields are left out
func Reply(cookieName, cookieValue *string) Responder {
	return func(ctx context.Context, p thrift.TProtocol, seq int32) error {
		if err := p.WriteMessageBegin(ctx, "login", thrift.REPLY, seq); err != nil {
			return err
		}
		if err := p.WriteStructBegin(ctx, "login_result"); err != nil {
			return err
		}
		if err := p.WriteFieldBegin(ctx, "success", thrift.STRUCT, 0); err != nil {
			return err
		}
		if err := p.WriteStructBegin(ctx, "PasswordLessLoginResult"); err != nil {
			return err
		}
		for i, v := range []*string{cookieName, cookieValue} {
			if v == nil {
				continue
			}
			if err := p.WriteFieldBegin(ctx, "", thrift.STRING, int16(i+1)); err != nil {
				return err
			}
			if err := p.WriteString(ctx, *v); err != nil {
				return err
			}
			if err := p.WriteFieldEnd(ctx); err != nil {
				return err
			}
		}
		if err := p.WriteFieldStop(ctx); err != nil {
			return err
		}
		if err := p.WriteStructEnd(ctx); err != nil {
			return err
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return err
		}
		return endReply(ctx, p)
	}
}

// EmptyReply answers without a success field
func EmptyReply() Responder {
	return func(ctx context.Context, p thrift.TProtocol, seq int32) error {
		if err := p.WriteMessageBegin(ctx, "login", thrift.REPLY, seq); err != nil {
			return err
		}
		if err := p.WriteStructBegin(ctx, "login_result"); err != nil {
			return err
		}
		return endReply(ctx, p)
	}
}

// Exception answers with an application exception
func Exception(message string) Responder {
	return func(ctx context.Context, p thrift.TProtocol, seq int32) error {
		if err := p.WriteMessageBegin(ctx, "login", thrift.EXCEPTION, seq); err != nil {
			return err
		}
		exc := thrift.NewTApplicationException(thrift.INTERNAL_ERROR, message)
		if err := exc.Write(ctx, p); err != nil {
			return err
		}
		return p.WriteMessageEnd(ctx)
	}
}

// Garbage answers with bytes that are not a thrift message
func Garbage() Responder {
	return func(ctx context.Context, p thrift.TProtocol, seq int32) error {
		_, err := p.Transport().Write([]byte{0xde, 0xad, 0xbe, 0xef, 0x00})
		return err
	}
}

func endReply(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteFieldStop(ctx); err != nil {
		return err
	}
	if err := p.WriteStructEnd(ctx); err != nil {
		return err
	}
	return p.WriteMessageEnd(ctx)
}
