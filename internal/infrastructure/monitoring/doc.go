/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
terminal backend, tracking HTTP requests, session lifecycle, PTY
traffic, and the WebSocket event channel.

# Features

- HTTP request metrics (latency, throughput)
- Session lifecycle metrics (active, spawned, closed)
- PTY traffic counters (bytes written, output bytes, exit events)
- WebSocket connection and message metrics
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record custom metrics
	metrics.SessionsActive.Inc()
	metrics.BytesWritten.Add(float64(n))

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
