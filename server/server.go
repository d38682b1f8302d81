// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server is redpipe's admin HTTP surface: Prometheus /metrics,
// net/http/pprof's /debug/pprof/*, and a JSON snapshot of live transport
// state at /debug/vars/transport.json. It is entirely optional — a process
// embedding redpipe as a library need never construct one.
package server

import (
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"

	"github.com/redpipe/redpipe/confengine"
	"github.com/redpipe/redpipe/logger"
)

// Server is a thin gorilla/mux wrapper exposing redpipe's admin routes.
type Server struct {
	config confengine.AdminSettings
	router *mux.Router
	server *http.Server
}

// New constructs a Server from settings. It returns (nil, nil) when the
// admin surface is disabled — callers must check for a nil Server before
// using it.
func New(settings confengine.AdminSettings) (*Server, error) {
	if !settings.Enabled {
		return nil, nil
	}

	router := mux.NewRouter()
	s := &Server{
		config: settings,
		router: router,
		server: &http.Server{Handler: router},
	}
	s.registerPprofRoutes()
	return s, nil
}

// ListenAndServe blocks serving the admin surface until the listener fails.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	logger.Infof("admin server listening on %s", s.config.Addr)
	return s.server.Serve(l)
}

func (s *Server) RegisterGetRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodGet).Path(path).HandlerFunc(f)
}

func (s *Server) RegisterPostRoute(path string, f http.HandlerFunc) {
	s.router.Methods(http.MethodPost).Path(path).HandlerFunc(f)
}

func (s *Server) registerPprofRoutes() {
	s.RegisterGetRoute("/debug/pprof/cmdline", pprof.Cmdline)
	s.RegisterGetRoute("/debug/pprof/profile", pprof.Profile)
	s.RegisterGetRoute("/debug/pprof/symbol", pprof.Symbol)
	s.RegisterGetRoute("/debug/pprof/trace", pprof.Trace)
	s.RegisterGetRoute("/debug/pprof/{other}", pprof.Index)
}
