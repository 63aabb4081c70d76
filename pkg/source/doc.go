// Package source supplies raw gt buffers from local files, URLs and the
// Netzschleuder network repository.
//
// A reference is resolved by [Fetcher.Open]:
//
//	karate.gt.zst                    local file
//	https://example.org/g.gt.zst     HTTP(S) download
//	ns:karate                        Netzschleuder network "karate"
//	ns:foodweb_baywet/dry            Netzschleuder subnetwork "dry"
//
// Downloads send an Origin header of https://networks.skewed.de, retry
// transient failures with backoff, refuse bodies over a size cap, and are
// optionally cached by URL. The decoder itself never touches the network:
// this package hands it one complete buffer.
package source
