// Package config reads layout settings and content feeds from disk.
//
// A settings file is TOML:
//
//	columns = 4
//	gap_x = 16
//	gap_y = 16
//	threshold = 300
//	responsive = true
//	default_image = "images/placeholder.png"
//
//	[animation]
//	name = "fadeInUp"
//	duration = "250ms"
//
//	[classes]
//	item = "card"
//
// A feed lists content descriptors, either as TOML
//
//	[[item]]
//	src = "https://cdn.example.com/1.jpg"
//	alt = "first"
//	[item.fields]
//	title = "First"
//
// or as a JSON array of {"src", "alt", "fields"} objects.
package config
