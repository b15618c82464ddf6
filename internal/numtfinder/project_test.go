package numtfinder

import "testing"

func Test_position(t *testing.T) {
	type args struct {
		length   int
		circular bool
		c        int
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{"inside the true range", args{16569, true, 1}, 1},
		{"end of the true range", args{16569, true, 16569}, 16569},
		{"first base past the origin", args{16569, true, 16570}, 1},
		{"deep in the doubled copy", args{16569, true, 16600}, 31},
		{"last base of the doubled copy", args{16569, true, 33138}, 16569},
		{"linear references never fold", args{16569, false, 16570}, 16570},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProjector(tt.args.length, tt.args.circular)
			if got := p.position(tt.args.c); got != tt.want {
				t.Errorf("position(%d) = %d, want %d", tt.args.c, got, tt.want)
			}
		})
	}
}

// a coordinate and its doubled-copy twin must land on the same base
func Test_position_roundTrip(t *testing.T) {
	p := newProjector(16569, true)
	for c := 1; c <= 16569; c++ {
		if got, twin := p.position(c), p.position(c+16569); got != twin {
			t.Fatalf("position(%d) = %d but position(%d) = %d", c, got, c+16569, twin)
		}
	}
}

func Test_span(t *testing.T) {
	type args struct {
		start int
		end   int
	}
	tests := []struct {
		name     string
		args     args
		wantS    int
		wantE    int
		wantWrap bool
	}{
		{"contained span", args{980, 1000}, 980, 1000, false},
		{"wrap through the origin", args{980, 1030}, 980, 30, true},
		{"span fully in the doubled copy", args{1001, 1005}, 1, 5, false},
		{"full length span", args{1, 1000}, 1, 1000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProjector(1000, true)
			s, e, wrap := p.span(tt.args.start, tt.args.end)
			if s != tt.wantS || e != tt.wantE || wrap != tt.wantWrap {
				t.Errorf("span(%d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.args.start, tt.args.end, s, e, wrap, tt.wantS, tt.wantE, tt.wantWrap)
			}
		})
	}
}
