// Package vacmap renders a live 2D map view of a robotic vacuum on top of
// [Ebitengine].
//
// The widget polls a state endpoint, overlays the robot's pose on the raster
// map the vacuum reports, and lets the user pan and zoom the view. Zoom is
// anchored at the cursor, dragging pans freely, and a click recenters the
// view on the robot.
//
// # Quick start
//
// Build a [Widget], hand its inbox to a [Poller], and run it like any
// [ebiten.Game]:
//
//	w := vacmap.NewWidget(vacmap.NewLogSink(logger), logger)
//	src := vacmap.NewHTTPSource(cfg.Endpoint, nil)
//	p := vacmap.NewPoller(src, w.Inbox(), logger)
//	go p.Run(ctx)
//	ebiten.RunGame(w)
//
// # Coordinate spaces
//
// Map-space is the coordinate system of the map image the vacuum produces;
// screen-space is pixels on the drawing surface. [View] is the single
// authority for converting between the two: screen = map*Scale + Pan. All
// drawing and hit math goes through it, so user-driven pan/zoom and
// asynchronously arriving state never disagree about where things are.
//
// # State ingestion
//
// State arrives from a [Source] (HTTP polling, a WebSocket stream, or an
// MQTT subscription). The [Poller] runs one fetch-decode cycle per fixed
// delay and posts whole [Snapshot] values to the widget, which applies them
// between frames. Failures surface as a banner message and the loop keeps
// its cadence; there is no backoff and no fatal error.
//
// [Ebitengine]: https://ebitengine.org
package vacmap
