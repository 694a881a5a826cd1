// Package journal persists a per-scan record of every finalized verdict:
// the scan identifier, the composite score, the verdict class, and the full
// symbol result list. Records are written asynchronously so the scan path
// never blocks on disk, and pruned on a configurable retention schedule.
package journal
