package client

import (
	"context"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/route"
)

// EngineDoer dispatches requests straight into a hertz engine without a
// network hop. It backs the CLI's -local mode and client tests. The caller's
// context reaches the handlers unchanged.
type EngineDoer struct {
	Engine *route.Engine
}

func (d EngineDoer) Do(ctx context.Context, req *protocol.Request, resp *protocol.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rc := d.Engine.NewContext()
	req.CopyTo(&rc.Request)
	d.Engine.ServeHTTP(ctx, rc)
	rc.Response.CopyTo(resp)
	return ctx.Err()
}
