package models

// All lists every table model, in migration order.
func All() []any {
	return []any{
		&Lead{},
		&Content{},
		&Product{},
		&GalleryItem{},
		&ServiceArea{},
		&Testimonial{},
		&LogEntry{},
	}
}
