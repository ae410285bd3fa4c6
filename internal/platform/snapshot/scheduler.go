package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SlpAus/habit-tracker-backend/internal/platform/config"
	"github.com/SlpAus/habit-tracker-backend/internal/platform/database"
	"github.com/SlpAus/habit-tracker-backend/pkg/lifecycle"
)

// StartSnapshotScheduler 启动一个后台Goroutine，定期把数据库快照写到磁盘。
// 它接收一个lifecycle.Handle来管理其生命周期。
func StartSnapshotScheduler(handle *lifecycle.Handle) {
	defer handle.Close() // 确保在退出时通知管理器
	fmt.Println("快照调度器已启动。")

	interval := config.Cfg.Snapshot.SnapshotInterval()
	for {
		// 使用可中断的休眠，收到停机信号时立刻唤醒并退出
		if err := handle.Sleep(interval); err != nil {
			fmt.Println("快照调度器: 休眠被中断，正在关闭...")
			return
		}

		if err := WriteSnapshotFile(); err != nil {
			fmt.Printf("快照调度器错误: %v\n", err)
		} else {
			fmt.Println("快照调度器: 快照写入成功。")
		}
	}
}

// WriteSnapshotFile 导出一份快照并写入快照目录。
// 固定文件名先写临时文件再改名，避免写到一半的文件被读取。
func WriteSnapshotFile() error {
	snap, err := Export(database.DB)
	if err != nil {
		return fmt.Errorf("无法导出快照: %w", err)
	}

	dir := config.Cfg.Snapshot.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("无法创建快照目录: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("无法序列化快照: %w", err)
	}

	finalPath := filepath.Join(dir, "latest.json")
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return fmt.Errorf("无法写入快照文件: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("无法替换快照文件: %w", err)
	}

	// 同时留一份带时间戳的副本，便于回溯
	datedPath := filepath.Join(dir, fmt.Sprintf("snapshot-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(datedPath, raw, 0o644); err != nil {
		fmt.Printf("警告: 无法写入带时间戳的快照副本: %v\n", err)
	}
	return nil
}
