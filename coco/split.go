package coco

import (
	"fmt"
	"math/rand"
	"sort"
)

// DefaultSplitRatio is the train fraction used when no ratio is given.
const DefaultSplitRatio = 0.9

// DefaultSplitSeed is the shuffle seed used when no seed is given. It is
// fixed so repeated runs produce the same split.
const DefaultSplitSeed = 24

// Split partitions the dataset into train and val sets. Images without any
// annotation are discarded first, the rest are shuffled deterministically
// with the given seed and split at the ratio (train fraction). Each image's
// annotations follow it into its partition; info, licenses and categories
// are copied to both.
func (d *Dataset) Split(ratio float64, seed int64) (train, val *Dataset, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, fmt.Errorf("split ratio %v outside (0, 1)", ratio)
	}

	byImage := make(map[int][]Annotation)
	for _, anno := range d.Annotations {
		byImage[anno.ImageID] = append(byImage[anno.ImageID], anno)
	}

	// Only images having annotations participate in the split.
	annotated := make([]Image, 0, len(d.Images))
	for _, img := range d.Images {
		if len(byImage[img.ID]) > 0 {
			annotated = append(annotated, img)
		}
	}
	if len(annotated) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 annotated images to split, have %d", len(annotated))
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(annotated), func(i, j int) {
		annotated[i], annotated[j] = annotated[j], annotated[i]
	})

	nTrain := int(ratio * float64(len(annotated)))
	if nTrain == 0 {
		nTrain = 1
	}
	if nTrain == len(annotated) {
		nTrain = len(annotated) - 1
	}

	train = d.partition(annotated[:nTrain], byImage)
	val = d.partition(annotated[nTrain:], byImage)
	return train, val, nil
}

// partition builds a dataset holding the given images and their
// annotations, sorted by ID for stable output.
func (d *Dataset) partition(images []Image, byImage map[int][]Annotation) *Dataset {
	p := NewDataset(d.Info)
	p.Licenses = append([]License{}, d.Licenses...)
	p.Categories = append([]Category{}, d.Categories...)

	p.Images = append([]Image{}, images...)
	sort.Slice(p.Images, func(i, j int) bool { return p.Images[i].ID < p.Images[j].ID })

	for _, img := range p.Images {
		p.Annotations = append(p.Annotations, byImage[img.ID]...)
	}
	sort.Slice(p.Annotations, func(i, j int) bool { return p.Annotations[i].ID < p.Annotations[j].ID })

	return p
}
