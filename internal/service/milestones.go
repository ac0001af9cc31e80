package service

import (
	"campus_quest_backend/internal/model"
	"fmt"
	"sort"
)

// Milestone 某一类计数达到阈值时发放的成就
type Milestone struct {
	ID          uint
	Threshold   int64
	Description string
	AwardTokens int
	Category    model.AchievementCategory
}

// MilestoneCounters 成就评估使用的四个计数
type MilestoneCounters struct {
	Quests        int64 `json:"quests"`
	Friends       int64 `json:"friends"`
	Likes         int64 `json:"likes"`
	Verifications int64 `json:"verifications"`
}

func (c MilestoneCounters) of(category model.AchievementCategory) int64 {
	switch category {
	case model.CategoryQuests:
		return c.Quests
	case model.CategoryFriends:
		return c.Friends
	case model.CategoryLikes:
		return c.Likes
	case model.CategoryVerifications:
		return c.Verifications
	}
	return 0
}

// MilestoneCatalog 四张里程碑表，每张按阈值升序
type MilestoneCatalog struct {
	Quests        []Milestone
	Friends       []Milestone
	Likes         []Milestone
	Verifications []Milestone
}

func milestoneTable(category model.AchievementCategory, format, first string, rows ...[3]int) []Milestone {
	table := make([]Milestone, 0, len(rows))
	for _, r := range rows {
		desc := first
		if r[0] != 1 {
			desc = fmt.Sprintf(format, r[0])
		}
		table = append(table, Milestone{
			ID:          uint(r[1]),
			Threshold:   int64(r[0]),
			Description: desc,
			AwardTokens: r[2],
			Category:    category,
		})
	}
	return table
}

// DefaultMilestoneCatalog returns the built-in tables as {threshold, id, award}.
func DefaultMilestoneCatalog() MilestoneCatalog {
	return MilestoneCatalog{
		Quests: milestoneTable(model.CategoryQuests, "Complete %d quests", "Complete your first quest",
			[3]int{1, 1, 50}, [3]int{5, 2, 100}, [3]int{10, 3, 200}, [3]int{25, 4, 500}, [3]int{50, 5, 1000}),
		Friends: milestoneTable(model.CategoryFriends, "Make %d friends", "Make your first friend",
			[3]int{1, 6, 50}, [3]int{5, 7, 100}, [3]int{10, 8, 200}, [3]int{25, 9, 500}),
		Likes: milestoneTable(model.CategoryLikes, "Receive %d likes", "Receive your first like",
			[3]int{1, 10, 25}, [3]int{10, 11, 100}, [3]int{50, 12, 250}, [3]int{100, 13, 500}),
		Verifications: milestoneTable(model.CategoryVerifications, "Verify %d quests", "Verify your first quest",
			[3]int{1, 14, 50}, [3]int{5, 15, 100}, [3]int{15, 16, 250}, [3]int{30, 17, 500}),
	}
}

func (c MilestoneCatalog) All() []Milestone {
	all := make([]Milestone, 0, len(c.Quests)+len(c.Friends)+len(c.Likes)+len(c.Verifications))
	all = append(all, c.Quests...)
	all = append(all, c.Friends...)
	all = append(all, c.Likes...)
	all = append(all, c.Verifications...)
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Achievements 转换为可写入数据库的成就目录
func (c MilestoneCatalog) Achievements() []model.Achievement {
	all := c.All()
	rows := make([]model.Achievement, 0, len(all))
	for _, m := range all {
		rows = append(rows, model.Achievement{
			ID:          m.ID,
			Description: m.Description,
			AwardTokens: m.AwardTokens,
			Category:    m.Category,
			Threshold:   int(m.Threshold),
		})
	}
	return rows
}

// Crossed lists milestones reached by counters and absent from awarded.
func (c MilestoneCatalog) Crossed(counters MilestoneCounters, awarded map[uint]bool) []Milestone {
	var crossed []Milestone
	for _, m := range c.All() {
		if counters.of(m.Category) >= m.Threshold && !awarded[m.ID] {
			crossed = append(crossed, m)
		}
	}
	return crossed
}
