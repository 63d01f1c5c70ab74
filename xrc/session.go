// Copyright (c) 2024, SDCIO contributors. All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package xrc is the transcoder façade: a Session binds one
// doctree.Pool, one compiled statemachine.Graph, and one
// recordschema.Linkage, and drives the Schema Walker's output through
// the Path Finder, Schema Applier, and Transducer in both directions.
// Grounded on compile.Compiler: one long-lived object wrapping
// configuration and caches that callers reuse across many documents,
// rather than rebuilding the pipeline per call.
package xrc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sdcio/xrc/applier"
	"github.com/sdcio/xrc/collab"
	"github.com/sdcio/xrc/doctree"
	"github.com/sdcio/xrc/metrics"
	"github.com/sdcio/xrc/pathfinder"
	"github.com/sdcio/xrc/recordschema"
	"github.com/sdcio/xrc/statemachine"
	"github.com/sdcio/xrc/transducer"
)

// Session is the façade a caller holds for one schema: it is safe to
// reuse across many sequential Write/Read calls, but like
// pathfinder.Matcher is not safe for concurrent use by itself —
// callers wanting concurrency run independent Sessions per goroutine.
type Session struct {
	pool    *doctree.Pool
	graph   *statemachine.Graph
	linkage *recordschema.Linkage
	log     *logrus.Entry
}

// NewSession returns a Session transcoding documents against graph,
// resolving record fields through linkage. Every Session gets its own
// uuid, attached to all its logrus entries, so concurrent Sessions'
// logs can be told apart.
func NewSession(graph *statemachine.Graph, linkage *recordschema.Linkage) *Session {
	return &Session{
		pool:    doctree.NewPool(),
		graph:   graph,
		linkage: linkage,
		log:     logrus.WithField("session_id", uuid.NewString()),
	}
}

// Write parses xmlSrc, matches it against the Session's graph, applies
// linkage, and replays the result onto sink.
func (s *Session) Write(ctx context.Context, xmlSrc collab.XMLEventSource, sink collab.BinaryEncoder) (err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		metrics.TranscodesTotal.WithLabelValues(metrics.DirectionWrite, outcome).Inc()
		metrics.TranscodeDuration.WithLabelValues(metrics.DirectionWrite).Observe(time.Since(start).Seconds())
	}()

	s.log.Debug("write: parsing document")
	collector := newTreeCollector()
	matcher := pathfinder.New(s.graph, s.pool, collector)
	if err = xmlSrc.Parse(ctx, matcher); err != nil {
		s.log.WithError(err).Debug("write: path matching failed")
		return err
	}
	if collector.root == nil {
		return nil
	}
	defer s.pool.ReleaseDocumentNode(collector.root)

	if err = applier.Apply(collector.root, s.linkage); err != nil {
		s.log.WithError(err).Debug("write: schema application failed")
		return err
	}
	if err = transducer.NewWriter(sink).Write(collector.root); err != nil {
		s.log.WithError(err).Debug("write: record encoding failed")
		return err
	}
	return nil
}

// Read decodes src against the Session's graph and linkage, replaying
// the result as XML events into xmlSink.
func (s *Session) Read(ctx context.Context, src collab.BinaryDecoder, xmlSink collab.XMLEventSink) (err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		metrics.TranscodesTotal.WithLabelValues(metrics.DirectionRead, outcome).Inc()
		metrics.TranscodeDuration.WithLabelValues(metrics.DirectionRead).Observe(time.Since(start).Seconds())
	}()

	s.log.Debug("read: decoding record")
	if err = transducer.NewReader(src, xmlSink).Read(s.graph.Start, s.linkage); err != nil {
		s.log.WithError(err).Debug("read: record decoding failed")
		return err
	}
	return nil
}

// treeCollector is the minimal pathfinder.Sink that just builds the
// matched doctree.DocumentNode tree, leaving the Transducer to do
// everything else. EnterElement fires for the root before any other
// node, since pathfinder.Matcher calls it from startRoot too.
type treeCollector struct {
	root *doctree.DocumentNode
}

func newTreeCollector() *treeCollector { return &treeCollector{} }

func (c *treeCollector) EnterElement(node *doctree.DocumentNode) error {
	if c.root == nil {
		c.root = node
	}
	return nil
}

func (c *treeCollector) ExitElement(*doctree.DocumentNode) error { return nil }

func (c *treeCollector) Characters(node *doctree.DocumentNode, text string) error {
	node.Text += text
	return nil
}

var _ pathfinder.Sink = (*treeCollector)(nil)
