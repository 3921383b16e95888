package fakestack

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Stack is a running pair of fake services on loopback listeners.
type Stack struct {
	Node   *CirisNode
	Engine *Engine

	nodeServer   *httptest.Server
	engineServer *httptest.Server
}

// Start serves a fake node and engine on ephemeral loopback ports. Callers must Close the stack.
func Start(nodeOpts NodeOptions, engineOpts EngineOptions) *Stack {
	s := &Stack{
		Node:   NewCirisNode(nodeOpts),
		Engine: NewEngine(engineOpts),
	}
	s.nodeServer = httptest.NewServer(s.Node)
	s.engineServer = httptest.NewServer(s.Engine)
	return s
}

func (s *Stack) NodeUrl() string {
	return s.nodeServer.URL
}

func (s *Stack) EngineUrl() string {
	return s.engineServer.URL
}

// StopNode closes the node's listener, so the node becomes unreachable while the engine stays up.
func (s *Stack) StopNode() {
	s.nodeServer.Close()
}

func (s *Stack) Close() {
	s.nodeServer.Close()
	s.engineServer.Close()
}

// Serve runs the fake node and engine on the given addresses until ctx is cancelled.
func Serve(ctx context.Context, nodeAddr string, engineAddr string, nodeOpts NodeOptions, engineOpts EngineOptions) error {
	nodeLis, err := net.Listen("tcp", nodeAddr)
	if err != nil {
		return errors.WithMessagef(err, "error listening for cirisnode on %s", nodeAddr)
	}
	engineLis, err := net.Listen("tcp", engineAddr)
	if err != nil {
		_ = nodeLis.Close()
		return errors.WithMessagef(err, "error listening for ethicsengine on %s", engineAddr)
	}

	g, ctx := errgroup.WithContext(ctx)
	serve := func(name string, lis net.Listener, handler http.Handler) {
		srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Infof("fake %s listening on %s", name, lis.Addr())
			if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	serve("cirisnode", nodeLis, NewCirisNode(nodeOpts))
	serve("ethicsengine", engineLis, NewEngine(engineOpts))
	return g.Wait()
}
