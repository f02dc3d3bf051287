package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting pipeline":                        "パイプラインを開始します",
		"Loading frames":                           "フレームを読み込み中",
		"Loaded %d frames spanning %d ms":          "%d フレームを読み込みました (%d ms)",
		"Prepared %d frames at %dx%d":              "%d フレームを %dx%d に変換しました",
		"Encoding video at %d fps with %s quality": "%d fps, 品質 %s で動画をエンコード中",
		"Video encoded: %d frames, %d bytes":       "動画をエンコードしました: %d フレーム, %d バイト",
		"Verifying %s":                             "%s を検証中",
		"Output saved to %s":                       "出力を %s に保存しました",
		"Pipeline completed successfully":          "パイプラインが正常に完了しました",
		"Interrupted, shutting down...":            "中断されました。シャットダウン中...",
		"Failed to load frames: %s":                "フレームの読み込みに失敗しました: %s",
		"Failed to prepare frames: %s":             "フレームの変換に失敗しました: %s",
		"Failed to encode video: %s":               "動画のエンコードに失敗しました: %s",
		"Verification failed: %s":                  "検証に失敗しました: %s",

		// Source stage and frame sources
		"Keeping %d of %d frames":   "%d / %d フレームを使用します",
		"Skipping %s":               "%s をスキップします",
		"Decoded %d images from %s": "%d 枚の画像を %s から読み込みました",

		// Prepare stage
		"Preparing %d frames at %dx%d with %d workers": "%d フレームを %dx%d に変換中 (%d ワーカー)",
		"Preparation completed":                        "変換が完了しました",
		"Failed to save debug frame %d: %s":            "デバッグフレーム %d の保存に失敗しました: %s",

		// Encode stage
		"Encoding %d frame slots from %d frames at %d fps": "%d フレーム枠を %d フレームから %d fps でエンコード中",
		"Encoded %d frames, %d bytes":                      "%d フレーム, %d バイトをエンコードしました",
		"Failed to finalize output: %s":                    "出力の終了処理に失敗しました: %s",

		// MJPEG encoder and AVI writer
		"Writing %s: %dx%d at %d fps, quality %s":      "%s を書き込み中: %dx%d, %d fps, 品質 %s",
		"Finished %s: %d frames, %d bytes":             "%s を完了しました: %d フレーム, %d バイト",
		"Opened AVI stream %dx%d at %d fps":            "AVIストリームを開きました: %dx%d, %d fps",
		"Frame %d written: %d bytes at movi offset %d": "フレーム %d を書き込みました: %d バイト (movi オフセット %d)",
		"Closed AVI stream: %d frames, %d bytes":       "AVIストリームを閉じました: %d フレーム, %d バイト",

		// Renderer
		"Font %s unavailable, using built-in face: %v": "フォント %s を読み込めないため内蔵フォントを使用します: %v",

		// Inspect stage
		"Verified %s: %d frames, %d index entries": "%s を検証しました: %d フレーム, %d インデックス",
		"Failed to save inspection: %s":            "検査結果の保存に失敗しました: %s",
	})
}
