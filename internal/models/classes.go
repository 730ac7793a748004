package models

// CocoClasses are the labels of the COCO-trained detection models, indexed by class id.
var CocoClasses = [...]string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

var classIndex = func() map[string]int {
	m := make(map[string]int, len(CocoClasses))
	for i, name := range CocoClasses {
		m[name] = i
	}
	return m
}()

// ClassName returns the label for id, or "unknown".
func ClassName(id int) string {
	if id < 0 || id >= len(CocoClasses) {
		return "unknown"
	}
	return CocoClasses[id]
}

// ClassID returns the id for a label, or -1.
func ClassID(name string) int {
	if id, ok := classIndex[name]; ok {
		return id
	}
	return -1
}
