// Package catalog provides the preset vehicle catalog for the fleet garage.
//
// A preset names a ready-made vehicle description (kind, brand, model, color,
// optional tank size and year) so callers can register common vehicles with a
// single identifier instead of spelling out every attribute.
//
// Built-in Presets:
//   - mustang: red Ford Mustang car
//   - explorer: black Ford Explorer car
//
// Preset Files:
//
// Additional presets are JSON files in the presets directory. The file name
// without the .json extension is the preset ID; a file with the ID of a
// built-in preset replaces it.
//
//	{
//	  "name": "Honda CB500",
//	  "kind": "motorcycle",
//	  "brand": "Honda",
//	  "model": "CB500",
//	  "color": "Blue"
//	}
//
// Usage:
//
//	presets, err := catalog.NewManager("presets")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := presets.Get("mustang")
//	car, err := preset.Build()
package catalog
