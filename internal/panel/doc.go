// Package panel holds the editable form state of each settings panel.
//
// Forms are plain values. Every method that changes a form returns an
// updated copy and leaves the receiver untouched, so a Bubble Tea model can
// store a form by value and replace it on each message:
//
//	form := panel.NewSpawnForm()
//	form = form.BeginLoad()
//	form = form.Loaded(cfg, err)
//	form = form.SetLatitude("45.0")
//
// Forms never talk to the device. Loading and saving are driven by the
// dashboard through the store, which reports back with Loaded and Saved.
//
// Busy flags follow one rule across all panels: BeginLoad and BeginSave set
// them, Loaded and Saved clear them whatever the outcome.
package panel
