// Package main provides localization for the mjpegw CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Output":            "出力先",
		"Frames":            "フレーム",
		"Video and Quality": "動画と品質",
		"Debug":             "デバッグ",
		"Logging":           "ログ",

		// Root command
		"Encode image sequences as Motion JPEG AVI files": "画像シーケンスをMotion JPEG形式のAVIファイルにエンコード",

		// Commands
		"Encode a directory of images as an MJPEG AVI file": "ディレクトリ内の画像をMJPEG AVIファイルにエンコード",
		"Render a test animation as an MJPEG AVI file":      "テストアニメーションをMJPEG AVIファイルとして出力",
		"Print and validate the structure of an AVI file":   "AVIファイルの構造を表示して検証",
		"Show version information":                          "バージョン情報を表示",
		"mjpegw version %s":                                 "mjpegw バージョン %s",

		// Output flags
		"Output AVI file path (required)":                    "出力AVIファイルパス（必須）",
		"YAML configuration file":                            "YAML設定ファイル",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Video flags
		"Output frame rate":                            "出力フレームレート",
		"Quality preset (low, medium, high)":           "品質プリセット（low, medium, high）",
		"Duration to hold final frame in milliseconds": "最終フレームの保持時間（ミリ秒）",
		"Skip re-reading the output after encoding":    "エンコード後の出力検証を省略",

		// Frame flags
		"Output video width (default: source width)":   "出力動画の幅（デフォルト: 元画像の幅）",
		"Output video height (default: source height)": "出力動画の高さ（デフォルト: 元画像の高さ）",
		"Stretch frames instead of letterboxing them":  "レターボックスではなく引き伸ばして配置",
		"Letterbox color (hex, e.g., #000000)":         "レターボックスの色（16進数、例: #000000）",
		"Use at most this many frames (0 = all)":       "使用する最大フレーム数（0 = 全て）",
		"Frame preparation workers (0 = one per CPU)":  "フレーム変換のワーカー数（0 = CPU数）",
		"Number of frames to render":                   "描画するフレーム数",
		"Frame width":                                  "フレームの幅",
		"Frame height":                                 "フレームの高さ",
		"Print the result as JSON":                     "結果をJSONで出力",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Error messages
		"Frame directory argument is required": "フレームディレクトリの引数が必要です",
		"AVI file argument is required":        "AVIファイルの引数が必要です",

		// Summary output
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Summary content
		"Encoding Summary": "エンコードサマリー",
		"Generated":        "生成日時",
		"Source":           "入力",
		"Settings":         "設定",
		"Video Details":    "動画詳細",
		"Item":             "項目",
		"Value":            "値",
		"Generated by":     "生成:",
		"Yes":              "はい",
		"No":               "いいえ",

		// Source section
		"Source Type":   "入力の種類",
		"Source Path":   "入力パス",
		"Source Frames": "入力フレーム数",
		"Source Span":   "入力の長さ",
		"directory":     "ディレクトリ",
		"demo":          "デモ",

		// Settings section
		"Quality":        "品質",
		"Frame Rate":     "フレームレート",
		"Keep Aspect":    "アスペクト比を維持",
		"Outro Duration": "アウトロ時間",
		"Workers":        "ワーカー数",

		// Video details section and inspect output
		"Frame Size":      "フレームサイズ",
		"Frame Count":     "フレーム数",
		"Unique Frames":   "固有フレーム数",
		"Video Duration":  "動画再生時間",
		"Video File Size": "動画ファイルサイズ",
		"Frame Data":      "フレームデータ",
		"Largest Frame":   "最大フレーム",
		"Average Frame":   "平均フレーム",
		"Verified":        "検証済み",
		"File":            "ファイル",
		"File size":       "ファイルサイズ",
		"Frame size":      "フレームサイズ",
		"Frame rate":      "フレームレート",
		"Codec":           "コーデック",
		"Frame data":      "フレームデータ",
		"Index entries":   "インデックス数",
		"Largest frame":   "最大フレーム",
		"%s is valid":     "%s は正常です",
	})
}
