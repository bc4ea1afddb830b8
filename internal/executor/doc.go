/*
Package executor runs stored requests without blocking the user interface.

# Overview

The executor package provides:
  - A Pipeline that runs each request on its own goroutine
  - Strategies selected by the request body kind
  - Decoders selected by the response Content-Type
  - TLS/mTLS client configuration

# Strategies

Strategies live in a closed lookup table keyed by collection.BodyKind.
HTTPStrategy serves both kinds:
  - BodyNone never attaches a body
  - BodyJSON attaches the body and a JSON Content-Type unless the request
    already sets one

Only enabled headers are sent.

# Decoders

Decoders live in a lookup keyed by media type:
  - application/json and +json suffixes: JSONDecoder
  - text/*, application/xml and +xml suffixes: TextDecoder
  - anything else: JSONDecoder

JSONDecoder re-indents the body; a body that does not parse yields an empty
pretty body. Sizes are computed the same way for every decoder:

	HeadersSize = sum(len(name) + len(value) + 4)
	BodySize    = len(body)
	TotalSize   = HeadersSize + BodySize

# Errors

Transport failures never surface as Go errors. They become a Response with
IsError set, a nil Status and the failure text in Cause.

# Example Usage

	client, err := executor.NewHTTPClient(executor.ClientOptions{Timeout: 10 * time.Second})
	if err != nil {
		return err
	}

	pipeline := executor.NewPipeline(client, nil)
	err = pipeline.Dispatch(req, func(resp executor.Response) error {
		return bus.Send(command.ResponseReceived{RequestID: req.ID, Response: resp})
	})

# Thread Safety

Dispatch may be called from any goroutine. The sink is invoked from the
request goroutine, so it must only hand the response over (for example by
queueing a command) and never touch UI state.
*/
package executor
