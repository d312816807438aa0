package store

import "huntermarket/pkg/domain"

// DemoListings returns the static listing table used by the demo
// configuration. IDs and timestamps are fixed so browse output is
// reproducible.
func DemoListings() []domain.Listing {
	return []domain.Listing{
		{
			ID:            "1",
			Title:         "CSCI 135 Textbook (Good Condition)",
			Price:         25,
			Category:      "Textbooks",
			ImageURL:      "https://picsum.photos/seed/book/800/600",
			Location:      "Hunter West",
			Condition:     "good",
			Description:   "Introduction to Computer Science textbook. Barely used, no highlights or markings. Perfect for CSCI 135 course.",
			SellerName:    "Alex Chen",
			SellerEmail:   "alex.chen@hunter.cuny.edu",
			DatePosted:    "2025-09-20T10:00:00.000Z",
			ContactMethod: "email",
		},
		{
			ID:            "2",
			Title:         "Dell XPS 13 (2019)",
			Price:         350,
			Category:      "Electronics",
			ImageURL:      "https://picsum.photos/seed/laptop/800/600",
			Location:      "Upper East Side",
			Condition:     "like new",
			Description:   "Excellent condition Dell XPS 13 laptop. Great for programming and school work. Includes charger and original box.",
			SellerName:    "Maria Rodriguez",
			SellerEmail:   "maria.rodriguez@hunter.cuny.edu",
			DatePosted:    "2025-09-27T18:30:00.000Z",
			ContactMethod: "email",
		},
		{
			ID:            "3",
			Title:         "Dorm Mini-Fridge",
			Price:         70,
			Category:      "Furniture",
			ImageURL:      "https://picsum.photos/seed/fridge/800/600",
			Location:      "Student Housing",
			Condition:     "fair",
			Description:   "Compact mini-fridge perfect for dorms. Works great, just some cosmetic wear. Great deal for students!",
			SellerName:    "Jordan Kim",
			SellerEmail:   "jordan.kim@hunter.cuny.edu",
			DatePosted:    "2025-09-22T13:45:00.000Z",
			ContactMethod: "email",
		},
		{
			ID:            "4",
			Title:         "Graphing Calculator TI-84",
			Price:         40,
			Category:      "Electronics",
			ImageURL:      "https://picsum.photos/seed/calculator/800/600",
			Location:      "Library",
			Description:   "TI-84 Plus CE graphing calculator. Barely used, includes case and batteries. Required for many math courses.",
			SellerName:    "Sam Wilson",
			SellerEmail:   "sam.wilson@hunter.cuny.edu",
			DatePosted:    "2025-09-29T02:15:00.000Z",
			ContactMethod: "email",
		},
		{
			ID:            "5",
			Title:         "IKEA Desk (like new)",
			Price:         55,
			Category:      "Furniture",
			ImageURL:      "https://picsum.photos/seed/desk/800/600",
			Location:      "Dorms",
			Condition:     "like new",
			Description:   "Clean white IKEA desk perfect for studying. Easy to assemble, includes all hardware. Moving out sale!",
			SellerName:    "Taylor Brown",
			SellerEmail:   "taylor.brown@hunter.cuny.edu",
			DatePosted:    "2025-09-25T08:10:00.000Z",
			ContactMethod: "email",
		},
		{
			ID:            "6",
			Title:         "Stats Tutoring (1hr)",
			Price:         30,
			Category:      "Services",
			ImageURL:      "https://picsum.photos/seed/study/800/600",
			Location:      "North Building",
			Description:   "Statistics tutoring session. I'm a senior math major with experience helping students understand difficult concepts. Can meet in library or virtually.",
			SellerName:    "Chris Lee",
			SellerEmail:   "chris.lee@hunter.cuny.edu",
			DatePosted:    "2025-09-24T16:00:00.000Z",
			ContactMethod: "email",
		},
	}
}
