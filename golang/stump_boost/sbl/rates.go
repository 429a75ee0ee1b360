package sbl

//Confusion counts outcomes of a binary prediction over the full, unweighted sample set.
type Confusion struct {
	TP, FN, FP, TN int
}

//NewConfusion compares predictions with the ground truth.
func NewConfusion(labels, predictions []Label) Confusion {
	var c Confusion
	for ind, label := range labels {
		c.add(label, predictions[ind])
	}
	return c
}

//ConfusionAt classifies scores against a threshold (score > th is positive) and counts outcomes.
func ConfusionAt(labels []Label, scores []float64, th float64) Confusion {
	var c Confusion
	for ind, label := range labels {
		c.add(label, Classify(scores[ind], th))
	}
	return c
}

func (c *Confusion) add(label, predicted Label) {
	if label == Positive {
		if predicted == Positive {
			c.TP++
		} else {
			c.FN++
		}
		return
	}
	if predicted == Positive {
		c.FP++
	} else {
		c.TN++
	}
}

//TPR is the true positive rate, 0 when there are no positive samples.
func (c Confusion) TPR() float64 {
	return ratio(c.TP, c.TP+c.FN)
}

//FPR is the false positive rate, 0 when there are no negative samples.
func (c Confusion) FPR() float64 {
	return ratio(c.FP, c.FP+c.TN)
}

//DetectionRate is the fraction of positive samples predicted positive.
//It is the same quantity as TPR and is kept separately for cascade callers.
func (c Confusion) DetectionRate() float64 {
	return c.TPR()
}

//Accuracy is the fraction of correctly classified samples.
func (c Confusion) Accuracy() float64 {
	return ratio(c.TP+c.TN, c.TP+c.TN+c.FP+c.FN)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

//Classify turns an ensemble score into a label. Scores equal to the threshold are negative.
func Classify(score, th float64) Label {
	if score > th {
		return Positive
	}
	return Negative
}
