// Package service implements a read-only HTTP API exposing a beacon node's
// view of the broadcast domain: who was last heard with what status, the
// configured peer set, and activity counters.
package service

import (
	"net/http"
	"sync"

	"github.com/meshworks/beacon/src/node"
	"github.com/meshworks/beacon/src/peers"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// Service exposes the node over HTTP.
type Service struct {
	sync.Mutex

	bindAddress string
	node        *node.Node
	logger      *logrus.Entry
}

// StatusView is one entry of the /statuses response.
type StatusView struct {
	Identity string `json:"identity"`
	Moniker  string `json:"moniker,omitempty"`
	Code     uint32 `json:"code"`
	Status   string `json:"status"`
}

// StatsView is the /stats response.
type StatsView struct {
	Identity      string `json:"identity"`
	Status        string `json:"status"`
	Uptime        string `json:"uptime"`
	Known         int    `json:"known"`
	Pending       int    `json:"pending"`
	FramesIn      int    `json:"frames_in"`
	RecordsIn     int    `json:"records_in"`
	Duplicates    int    `json:"duplicates"`
	Evictions     int    `json:"evictions"`
	Notifications int    `json:"notifications"`
	Broadcasts    int    `json:"broadcasts"`
	FramesOut     int    `json:"frames_out"`
}

// NewService instantiates the Service and registers its handlers with the
// DefaultServeMux of the http package.
func NewService(bindAddress string, n *node.Node, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		node:        n,
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering beacon API handlers")
	http.HandleFunc("/statuses", s.makeHandler(s.GetStatuses))
	http.HandleFunc("/peers", s.makeHandler(s.GetPeers))
	http.HandleFunc("/stats", s.makeHandler(s.GetStats))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Serve calls ListenAndServe. This is a blocking call. It is not necessary to
// call Serve when another server has already been started with the
// DefaultServeMux and the same address:port combination.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving beacon API")

	err := http.ListenAndServe(s.bindAddress, nil)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStatuses returns the latest-state table, oldest entry first, with
// monikers filled in for recognized peers.
func (s *Service) GetStatuses(w http.ResponseWriter, r *http.Request) {
	peerSet := s.node.Peers()

	views := []StatusView{}
	for _, record := range s.node.KnownStatuses() {
		view := StatusView{
			Identity: record.ID.String(),
			Code:     uint32(record.Code),
			Status:   record.Code.String(),
		}
		if peer, ok := peerSet.Get(record.ID); ok {
			view.Moniker = peer.Moniker
		}
		views = append(views, view)
	}

	s.writeJSON(w, views)
}

// GetPeers returns the configured peer set.
func (s *Service) GetPeers(w http.ResponseWriter, r *http.Request) {
	ps := s.node.Peers().Peers
	if ps == nil {
		ps = []*peers.Peer{}
	}
	s.writeJSON(w, ps)
}

// GetStats returns the node's activity counters.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := s.node.GetStats()

	s.writeJSON(w, StatsView{
		Identity:      s.node.LocalID().String(),
		Status:        s.node.Status().String(),
		Uptime:        s.node.Uptime().String(),
		Known:         len(s.node.KnownStatuses()),
		Pending:       len(s.node.PendingDigest()),
		FramesIn:      stats.FramesIn,
		RecordsIn:     stats.RecordsIn,
		Duplicates:    stats.Duplicates,
		Evictions:     stats.Evictions,
		Notifications: stats.Notifications,
		Broadcasts:    stats.Broadcasts,
		FramesOut:     stats.FramesOut,
	})
}

// writeJSON encodes v in canonical JSON onto the response.
func (s *Service) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(w, jh)

	if err := enc.Encode(v); err != nil {
		s.logger.WithError(err).Error("Encoding API response")
	}
}
