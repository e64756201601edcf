// Package theme loads the CSS that styles the overlay and the slider popup.
// Bundled themes are embedded; files in ~/.config/shade/themes override them
// by name.
package theme
