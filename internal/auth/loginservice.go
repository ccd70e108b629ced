package auth

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// loginMethod is the single call exposed by the TSM controller login socket
const loginMethod = "login"

// LoginResult is the reply of the passwordless login call. Either field may
// be absent.
type LoginResult struct {
	CookieName  *string
	CookieValue *string
}

// Read implements thrift.TStruct
func (p *LoginResult) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read error: ", p), err)
	}

	for {
		_, fieldType, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%T field %d read error: ", p, fieldID), err)
		}
		if fieldType == thrift.STOP {
			break
		}

		switch {
		case fieldID == 1 && fieldType == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return thrift.PrependError("error reading field 1: ", err)
			}
			p.CookieName = &v
		case fieldID == 2 && fieldType == thrift.STRING:
			v, err := iprot.ReadString(ctx)
			if err != nil {
				return thrift.PrependError("error reading field 2: ", err)
			}
			p.CookieValue = &v
		default:
			if err := iprot.Skip(ctx, fieldType); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}

	if err := iprot.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T read struct end error: ", p), err)
	}
	return nil
}

// Write implements thrift.TStruct
func (p *LoginResult) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "PasswordLessLoginResult"); err != nil {
		return thrift.PrependError(fmt.Sprintf("%T write struct begin error: ", p), err)
	}
	if err := writeOptionalString(ctx, oprot, "cookieName", 1, p.CookieName); err != nil {
		return err
	}
	if err := writeOptionalString(ctx, oprot, "cookieValue", 2, p.CookieValue); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	return oprot.WriteStructEnd(ctx)
}

func writeOptionalString(ctx context.Context, oprot thrift.TProtocol, name string, id int16, v *string) error {
	if v == nil {
		return nil
	}
	if err := oprot.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := oprot.WriteString(ctx, *v); err != nil {
		return thrift.PrependError(fmt.Sprintf("field %d (%s) write error: ", id, name), err)
	}
	return oprot.WriteFieldEnd(ctx)
}

// loginArgs is the empty argument struct of login()
type loginArgs struct{}

func (p *loginArgs) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, _, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		if err := iprot.Skip(ctx, fieldType); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func (p *loginArgs) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "login_args"); err != nil {
		return err
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// loginReply wraps the result in field 0 as thrift service replies do
type loginReply struct {
	Success *LoginResult
}

func (p *loginReply) Read(ctx context.Context, iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(ctx); err != nil {
		return err
	}
	for {
		_, fieldType, fieldID, err := iprot.ReadFieldBegin(ctx)
		if err != nil {
			return err
		}
		if fieldType == thrift.STOP {
			break
		}
		if fieldID == 0 && fieldType == thrift.STRUCT {
			p.Success = &LoginResult{}
			if err := p.Success.Read(ctx, iprot); err != nil {
				return err
			}
		} else if err := iprot.Skip(ctx, fieldType); err != nil {
			return err
		}
		if err := iprot.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	return iprot.ReadStructEnd(ctx)
}

func (p *loginReply) Write(ctx context.Context, oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin(ctx, "login_result"); err != nil {
		return err
	}
	if p.Success != nil {
		if err := oprot.WriteFieldBegin(ctx, "success", thrift.STRUCT, 0); err != nil {
			return err
		}
		if err := p.Success.Write(ctx, oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := oprot.WriteFieldStop(ctx); err != nil {
		return err
	}
	return oprot.WriteStructEnd(ctx)
}

// LoginServiceClient calls the controller login service
type LoginServiceClient struct {
	c thrift.TClient
}

// NewLoginServiceClient wraps a thrift client
func NewLoginServiceClient(c thrift.TClient) *LoginServiceClient {
	return &LoginServiceClient{c: c}
}

// Login performs the login() call
func (c *LoginServiceClient) Login(ctx context.Context) (*LoginResult, error) {
	var args loginArgs
	var reply loginReply

	if _, err := c.c.Call(ctx, loginMethod, &args, &reply); err != nil {
		return nil, err
	}
	if reply.Success == nil {
		return nil, thrift.NewTApplicationException(thrift.MISSING_RESULT, "login failed: unknown result")
	}
	return reply.Success, nil
}
