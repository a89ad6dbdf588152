//go:build !unix

package app

import "probekit/internal/batch"

func watchPause(*batch.Control) (stop func()) { return func() {} }
