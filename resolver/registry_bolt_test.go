// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/MovingBlocks/gestalt-sub000/internal/test"
)

func TestBoltRegistryRoundTrip(t *testing.T) {
	h := test.NewHelper(t)
	defer h.Cleanup()
	h.TempDir(".")
	path := h.Path("registry/modules.db")

	reg, err := OpenBoltRegistry(path, 0)
	h.Must(err)
	defer reg.Close()

	want := []Module{
		mkMod("a 1.0.0", "b 1.0.0", "?c 0.2.0 0.5.0"),
		mkMod("a 2.0.0", "b 2.0.0"),
		mkMod("b 1.0.0"),
		mkMod("b 2.0.0"),
	}
	h.Must(reg.Put(want...))
	h.MustExist(path)

	ml, err := reg.ModuleVersions("a")
	h.Must(err)
	ml = sortModulesForUpgrade(ml)
	if got := modulesString(ml); got != "a-2.0.0, a-1.0.0" {
		t.Fatalf("Unexpected stored versions %s", got)
	}
	if !reflect.DeepEqual(ml[1].Dependencies(), want[0].Dependencies()) {
		t.Errorf("Dependencies did not survive storage:\n\t(GOT): %v\n\t(WNT): %v", ml[1].Dependencies(), want[0].Dependencies())
	}
	if got := ml[1].Dependencies()[0].MaxVersion; !got.IsZero() {
		t.Errorf("Unset max version was stored as %s", got)
	}

	h.Must(reg.Put(mkMod("a 1.0.0")))
	ml, err = reg.ModuleVersions("a")
	h.Must(err)
	for _, m := range ml {
		if m.Version().String() == "1.0.0" && len(m.Dependencies()) != 0 {
			t.Errorf("Put did not replace stored version: %v", m.Dependencies())
		}
	}
	if len(ml) != 2 {
		t.Errorf("Expected 2 versions after replacement, got %s", modulesString(ml))
	}

	names, err := reg.Names()
	h.Must(err)
	if !reflect.DeepEqual(names, []Name{"a", "b"}) {
		t.Errorf("Unexpected stored names %v", names)
	}

	ml, err = reg.ModuleVersions("missing")
	if err != nil || len(ml) != 0 {
		t.Errorf("Expected nothing for an unknown module, got %v, %v", ml, err)
	}
}

func TestBoltRegistryEpoch(t *testing.T) {
	h := test.NewHelper(t)
	defer h.Cleanup()
	h.TempDir(".")
	path := h.Path("modules.db")

	reg, err := OpenBoltRegistry(path, 0)
	h.Must(err)
	h.Must(reg.Put(mkMod("a 1.0.0")))
	h.Must(reg.Close())

	reg, err = OpenBoltRegistry(path, time.Now().Add(time.Hour).Unix())
	h.Must(err)
	defer reg.Close()

	ml, err := reg.ModuleVersions("a")
	h.Must(err)
	if len(ml) != 0 {
		t.Errorf("Versions stored before the epoch should be ignored, got %s", modulesString(ml))
	}
}

func TestBoltRegistryImportResolves(t *testing.T) {
	h := test.NewHelper(t)
	defer h.Cleanup()
	h.TempDir(".")

	src := NewMemoryRegistry(
		mkMod("a 1.0.0", "b 1.0.0"),
		mkMod("a 2.0.0", "b 2.0.0"),
		mkMod("b 1.0.0"),
	)
	reg, err := OpenBoltRegistry(h.Path("modules.db"), 0)
	h.Must(err)
	defer reg.Close()
	h.Must(reg.Import(src, src.Names("")...))

	r, err := NewResolver(Params{Registry: reg})
	h.Must(err)
	res, err := r.Resolve(context.Background(), "a")
	h.Must(err)
	if !res.Success {
		t.Fatalf("Resolution from stored registry failed: %s", res.Failure)
	}
	if got := modulesString(res.Modules); got != "a-1.0.0, b-1.0.0" {
		t.Errorf("Unexpected resolution %s", got)
	}
}

func TestCacheDependencyEncoding(t *testing.T) {
	for _, s := range []string{"a 1.0.0", "?a 0.1.0 0.4.0", "a 1.0.0-rc.1 2.0.0"} {
		d := mkDep(s)
		got, err := cacheDecodeDependency(cacheEncodeDependency(d))
		if err != nil {
			t.Errorf("(%q) decode failed: %s", s, err)
			continue
		}
		if !reflect.DeepEqual(got, d) {
			t.Errorf("(%q) decoded %v, want %v", s, got, d)
		}
	}

	if _, err := cacheDecodeDependency([]byte("a\x001.0.0")); err == nil {
		t.Error("Expected an error for a truncated dependency")
	}
	if _, err := cacheDecodeDependency([]byte("a\x001.0.0\x00\x00maybe")); err == nil {
		t.Error("Expected an error for an unknown optionality marker")
	}
}
