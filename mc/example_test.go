package mc_test

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/mcalign/alignment"
	"github.com/katalvlaran/mcalign/mc"
	"github.com/katalvlaran/mcalign/score"
)

// ExampleNew refines a two-structure alignment whose second row is off by
// one residue.
func ExampleNew() {
	var (
		a = make([]alignment.Vec3, 30)
		b = make([]alignment.Vec3, 30)
	)
	for i := range a {
		t := float64(i)
		a[i] = alignment.Vec3{X: 3.8 * t, Y: 4 * math.Sin(t/2), Z: 3 * math.Cos(t/3)}
		b[i] = a[i].Add(alignment.Vec3{X: 10, Y: -3, Z: 1})
	}
	ens, _ := alignment.NewEnsemble(
		alignment.Structure{Name: "a", Coords: a},
		alignment.Structure{Name: "b", Coords: b},
	)
	rows := [][]int{make([]int, 20), make([]int, 20)}
	for i := 0; i < 20; i++ {
		rows[0][i] = i + 5
		rows[1][i] = i + 6
	}
	block, _ := alignment.NewBlock(rows)
	seed, _ := alignment.New(ens, &alignment.BlockSet{Blocks: []*alignment.Block{block}})

	p := mc.DefaultParameters()
	p.MinBlockLength = 5
	p.RandomSeed = 3
	opt, err := mc.New(seed, p, mc.WithMaxIterations(2000))
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := opt.Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}
	_, ok := res.Alignment.Score(score.MCScoreKey)
	fmt.Println(res.Score > res.InitialScore, ok)
	// Output: true true
}
