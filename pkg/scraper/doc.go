// Package scraper orchestrates bulk profile collection from the Hinge API.
//
// The main entry point is Run, which repeats a fixed number of
// fetch-reshape-persist cycles against the recommendations feed:
//
//  1. Fetch recommendations and collect subject identities with their
//     rating tokens. An empty cycle is logged and skipped.
//  2. Batch-fetch full public profiles for the collected identities.
//  3. Reshape each previously-unseen profile into the persisted schema and
//     insert it; identities already in the store are counted as duplicates
//     and never refreshed.
//  4. Rewrite the full store file, then sleep a random duration within the
//     configured window before the next cycle.
//
// Export is the one-shot variant (recommendations or standouts source)
// without the multi-cycle loop or cross-run dedupe. DownloadImages saves
// every profile photo from the current recommendations to disk.
package scraper
