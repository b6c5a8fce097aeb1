// seehuhn.de/go/psprint - a driver core for PostScript page printers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package accessory

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invokes fn with the freshly loaded configuration whenever the
// file at the store's path changes, until ctx is canceled.
//
// The watch covers the containing directory, because [Store.Save]
// replaces the file by rename.  Unreadable intermediate states are
// skipped silently.
func Watch(ctx context.Context, store *Store, fn func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(store.Path)
	if err := w.Add(dir); err != nil {
		return err
	}
	base := filepath.Base(store.Path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := store.Load()
			if err != nil {
				continue
			}
			fn(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
