// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package services adapts runstats components to suture's
Serve(ctx) error contract.

  - HTTPServerService wraps *http.Server: ListenAndServe, then a graceful
    Shutdown once the context is cancelled.
  - CacheJanitorService prunes expired report cache entries on a ticker.
  - ReportWarmerService recomputes the default usage report on a ticker so
    dashboard requests are served from cache.
  - SnapshotGCService runs BadgerDB value log GC for report snapshots.

Each service implements fmt.Stringer so supervisor log lines name it.
*/
package services
