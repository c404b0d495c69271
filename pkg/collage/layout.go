package collage

// キャンバスは縦長A4相当の固定サイズです。レイアウトはすべてこの座標系で計算します。
const (
	// CanvasWidth / CanvasHeight は出力コラージュの固定ピクセルサイズです。
	CanvasWidth  = 2480
	CanvasHeight = 3508

	// headerBand はタイトル・サブタイトル用に予約する上部マージンです。
	// ポスターはこの帯より下にしか描画されません。
	headerBand = 300.0

	// padding はセル間と外周マージンを兼ねる固定の余白単位です。
	padding = 100.0

	columns = 2

	// posterCellRatio はセルに対するポスター最大寸法の比率です。
	posterCellRatio = 0.9

	// ポスター枠は元画像のアスペクト比に関係なく常に 2:3 の縦長です。
	posterAspectRatio = 2.0 / 3.0 // 幅/高さ

	// captionBandRatio はポスター高さに対するグラデーション帯の比率です。
	captionBandRatio = 0.22

	// maxRotationRad は1枚ごとのランダム回転の上限（ラジアン）です。
	maxRotationRad = 0.05
)

// frame はキャンバス座標系での矩形です。
type frame struct {
	X, Y, W, H float64
}

// layout はアイテム数から決まるグリッドの寸法一式です。
// 回転ジッタを除き、同じ入力集合・順序に対して完全に決定的です。
type layout struct {
	count int
	rows  int
	cellW float64
	cellH float64
}

func newLayout(count int) layout {
	rows := (count + columns - 1) / columns
	if rows < 1 {
		rows = 1
	}

	contentH := float64(CanvasHeight) - headerBand
	cellW := (float64(CanvasWidth) - float64(columns+1)*padding) / float64(columns)
	cellH := (contentH - float64(rows+1)*padding) / float64(rows)

	return layout{count: count, rows: rows, cellW: cellW, cellH: cellH}
}

// posterSize はセル内制約（各辺90%）のきつい方に合わせて
// 正確に 2:3 を保ったポスター寸法を返します。
func (l layout) posterSize() (w, h float64) {
	maxW := l.cellW * posterCellRatio
	maxH := l.cellH * posterCellRatio

	w = maxW
	h = w / posterAspectRatio
	if h > maxH {
		h = maxH
		w = h * posterAspectRatio
	}
	return w, h
}

// posterFrame は元の（非反転の）インデックスからポスターの描画枠を計算します。
// 最終行にアイテムが1つだけ残る場合、その1枚はセル位置ではなく
// キャンバス全幅に対して中央寄せされます。
func (l layout) posterFrame(index int) frame {
	row := index / columns
	col := index % columns
	w, h := l.posterSize()

	cellY := headerBand + padding + float64(row)*(l.cellH+padding)
	y := cellY + (l.cellH-h)/2

	if l.isLoneLastItem(index) {
		return frame{X: (float64(CanvasWidth) - w) / 2, Y: y, W: w, H: h}
	}

	cellX := padding + float64(col)*(l.cellW+padding)
	return frame{X: cellX + (l.cellW-w)/2, Y: y, W: w, H: h}
}

// isLoneLastItem は index が「最終行の唯一の住人」かどうかを返します。
func (l layout) isLoneLastItem(index int) bool {
	return index == l.count-1 && l.count%columns == 1
}
