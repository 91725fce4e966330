package models

import "testing"

func TestCompletion(t *testing.T) {
	cases := []struct {
		name string
		user UserProfile
		want int
	}{
		{
			"fresh account",
			UserProfile{Name: "Asha", Email: "a@b.c"},
			33,
		},
		{
			"one contact field",
			UserProfile{Name: "Asha", Email: "a@b.c", Phone: "+911234567890"},
			50,
		},
		{
			"two contact fields",
			UserProfile{Name: "Asha", Email: "a@b.c", Phone: "+91", Address: "12 MG Road"},
			67,
		},
		{
			"three contact fields",
			UserProfile{Name: "Asha", Email: "a@b.c", Phone: "+91", Address: "x", Zipcode: "560001"},
			83,
		},
		{
			"complete profile",
			UserProfile{Name: "Asha", Email: "a@b.c", Phone: "+91", Address: "x", Zipcode: "560001", Country: "India"},
			100,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.Completion(); got != tc.want {
				t.Errorf("Completion() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestValidGender(t *testing.T) {
	for _, g := range []string{GenderMen, GenderWomen, GenderBaby, GenderAnyone} {
		if !ValidGender(g) {
			t.Errorf("ValidGender(%q) = false", g)
		}
	}
	for _, g := range []string{"", "men", "Unisex"} {
		if ValidGender(g) {
			t.Errorf("ValidGender(%q) = true", g)
		}
	}
}
